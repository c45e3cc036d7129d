package commands

import (
  "context"
  "errors"
  "fmt"
  "log"
  "os"
  "os/signal"
  "strings"

  "github.com/urfave/cli/v2"

  "scraper.local/dm-archiver/common"
  "scraper.local/dm-archiver/config"
  "scraper.local/dm-archiver/repositories"
)

type ThreadsHandler struct {
  SessionsRepository *repositories.SessionsRepository
  Repository         *repositories.InboxRepository
}

func NewThreadsCommand() *cli.Command {
  var h ThreadsHandler
  return &cli.Command{
    Name:  "threads",
    Usage: "list the conversation threads of the inbox",
    Flags: []cli.Flag{
      &cli.Float64Flag{
        Name:    "delay",
        Aliases: []string{"d"},
        Usage:   "delay between paginated requests in seconds",
      },
      &cli.BoolFlag{
        Name:    "raw",
        Aliases: []string{"r"},
        Usage:   "dump the raw responses of this run",
      },
    },
    Before: func(c *cli.Context) error {
      h = ThreadsHandler{
        SessionsRepository: &repositories.SessionsRepository{},
      }
      return nil
    },
    Action: func(c *cli.Context) error {
      if err := h.List(c); err != nil {
        return cli.Exit(err.Error(), 1)
      }
      return nil
    },
  }
}

func (h *ThreadsHandler) List(c *cli.Context) (err error) {
  session, err := h.SessionsRepository.Load()
  if err != nil {
    return
  }

  h.Repository = &repositories.InboxRepository{
    Session:    session,
    HttpClient: common.NewHttpClient(session.Slot),
    Limiter:    common.NewLimiter(c.Float64("delay")),
    BaseUrl:    config.TWITTER_BASE_URL,
    Raw:        c.Bool("raw"),
  }

  ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
  defer stop()

  threads, err := h.Repository.ListThreads(ctx)
  if errors.Is(err, repositories.ErrAccountLocked) {
    log.Println("your account has been temporarily locked by twitter, unlock it on the twitter website and retry with a larger --delay")
  }
  if err != nil {
    return
  }

  for _, thread := range threads {
    fmt.Println(thread.ThreadID, strings.Join(thread.Participants, ","))
  }
  log.Println("total threads:", len(threads))
  return
}
