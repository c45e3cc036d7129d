package commands

import (
  "context"
  "errors"
  "log"
  "os"
  "os/signal"

  "github.com/urfave/cli/v2"

  "scraper.local/dm-archiver/common"
  "scraper.local/dm-archiver/config"
  "scraper.local/dm-archiver/repositories"
  "scraper.local/dm-archiver/repositories/parsers"
)

type ArchiveHandler struct {
  SessionsRepository *repositories.SessionsRepository
  Repository         *repositories.ArchiversRepository
}

func NewArchiveCommand() *cli.Command {
  var h ArchiveHandler
  return &cli.Command{
    Name:      "archive",
    Usage:     "archive a direct message conversation into <conversation_id>.txt",
    ArgsUsage: "<conversation_id>",
    Flags: []cli.Flag{
      &cli.Float64Flag{
        Name:    "delay",
        Aliases: []string{"d"},
        Usage:   "delay between paginated requests in seconds",
      },
      &cli.BoolFlag{
        Name:    "images",
        Aliases: []string{"i"},
        Usage:   "download images and stickers",
      },
      &cli.BoolFlag{
        Name:    "gifs",
        Aliases: []string{"g"},
        Usage:   "download animated gifs (mp4)",
      },
      &cli.BoolFlag{
        Name:    "videos",
        Aliases: []string{"v"},
        Usage:   "download videos (mp4)",
      },
      &cli.BoolFlag{
        Name:    "raw",
        Aliases: []string{"r"},
        Usage:   "dump the raw responses of this run",
      },
    },
    Before: func(c *cli.Context) error {
      h = ArchiveHandler{
        SessionsRepository: &repositories.SessionsRepository{},
      }
      return nil
    },
    Action: func(c *cli.Context) error {
      conversationID := c.Args().Get(0)
      if conversationID == "" {
        log.Fatal("conversation id can not be empty")
        return nil
      }
      if err := h.Archive(c, conversationID); err != nil {
        return cli.Exit(err.Error(), 1)
      }
      return nil
    },
  }
}

func (h *ArchiveHandler) Archive(c *cli.Context, conversationID string) (err error) {
  session, err := h.SessionsRepository.Load()
  if err != nil {
    return
  }

  httpClient := common.NewHttpClient(session.Slot)
  h.Repository = &repositories.ArchiversRepository{
    Inbox: &repositories.InboxRepository{
      Session:    session,
      HttpClient: httpClient,
      Limiter:    common.NewLimiter(c.Float64("delay")),
      BaseUrl:    config.TWITTER_BASE_URL,
    },
    Parser: &parsers.MessagesParser{
      Resolver: &repositories.ResolverRepository{
        HttpClient: common.NewNoRedirectHttpClient(session.Slot),
      },
    },
    Media: &repositories.MediaRepository{
      Session:        session,
      HttpClient:     httpClient,
      DownloadImages: c.Bool("images"),
      DownloadGifs:   c.Bool("gifs"),
      DownloadVideos: c.Bool("videos"),
    },
    Transcripts: &repositories.TranscriptsRepository{},
    Raw:         c.Bool("raw"),
  }

  ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
  defer stop()

  err = h.Repository.Crawl(ctx, conversationID)
  if errors.Is(err, repositories.ErrAccountLocked) {
    log.Println("your account has been temporarily locked by twitter, unlock it on the twitter website and retry with a larger --delay")
  }
  return
}
