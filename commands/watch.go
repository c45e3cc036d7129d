package commands

import (
  "context"
  "log"
  "os"
  "os/signal"

  "github.com/robfig/cron/v3"
  "github.com/urfave/cli/v2"

  "scraper.local/dm-archiver/common"
  "scraper.local/dm-archiver/config"
  "scraper.local/dm-archiver/repositories"
  "scraper.local/dm-archiver/repositories/parsers"
)

type WatchHandler struct {
  SessionsRepository *repositories.SessionsRepository
  Repository         *repositories.ArchiversRepository
}

func NewWatchCommand() *cli.Command {
  var h WatchHandler
  return &cli.Command{
    Name:  "watch",
    Usage: "periodically re-archive the conversations of ARCHIVER_WATCH_IDS",
    Flags: []cli.Flag{
      &cli.Float64Flag{
        Name:    "delay",
        Aliases: []string{"d"},
        Usage:   "delay between paginated requests in seconds",
      },
    },
    Before: func(c *cli.Context) error {
      h = WatchHandler{
        SessionsRepository: &repositories.SessionsRepository{},
      }
      return nil
    },
    Action: func(c *cli.Context) error {
      if err := h.Run(c); err != nil {
        return cli.Exit(err.Error(), 1)
      }
      return nil
    },
  }
}

func (h *WatchHandler) Run(c *cli.Context) (err error) {
  log.Println("watch running...")

  ids := common.GetEnvArray("ARCHIVER_WATCH_IDS")
  if len(ids) == 0 {
    log.Fatal("ARCHIVER_WATCH_IDS can not be empty")
    return
  }
  schedule := common.GetEnvString("ARCHIVER_WATCH_SCHEDULE")
  if schedule == "" {
    schedule = "@every 15m"
  }

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
      Session:    session,
      HttpClient: httpClient,
    },
    Transcripts: &repositories.TranscriptsRepository{},
  }

  ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
  defer stop()

  job := cron.New()
  job.AddFunc(schedule, func() {
    for _, id := range ids {
      if ctx.Err() != nil {
        return
      }
      if crawlErr := h.Repository.Crawl(ctx, id); crawlErr != nil {
        log.Println("crawl failed for", id, crawlErr)
      }
    }
  })
  job.Start()
  defer job.Stop()

  <-ctx.Done()
  return nil
}
