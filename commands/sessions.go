package commands

import (
  "log"
  "strconv"

  "github.com/urfave/cli/v2"

  "scraper.local/dm-archiver/repositories"
)

type SessionsHandler struct {
  Repository *repositories.SessionsRepository
}

func NewSessionsCommand() *cli.Command {
  var h SessionsHandler
  return &cli.Command{
    Name:  "sessions",
    Usage: "manage the stored browser session",
    Before: func(c *cli.Context) error {
      h = SessionsHandler{
        Repository: &repositories.SessionsRepository{},
      }
      return nil
    },
    Subcommands: []*cli.Command{
      {
        Name:      "apply",
        Usage:     "store a session from a browser cookie",
        ArgsUsage: "<account> <cookie> [slot]",
        Action: func(c *cli.Context) error {
          account := c.Args().Get(0)
          if account == "" {
            log.Fatal("account can not be empty")
            return nil
          }
          cookie := c.Args().Get(1)
          if cookie == "" {
            log.Fatal("cookie can not be empty")
            return nil
          }
          slot, _ := strconv.Atoi(c.Args().Get(2))
          if err := h.Apply(account, cookie, slot); err != nil {
            return cli.Exit(err.Error(), 1)
          }
          return nil
        },
      },
      {
        Name:  "check",
        Usage: "verify the stored session is still valid",
        Action: func(c *cli.Context) error {
          if err := h.Check(); err != nil {
            return cli.Exit(err.Error(), 1)
          }
          return nil
        },
      },
    },
  }
}

func (h *SessionsHandler) Apply(account string, cookie string, slot int) (err error) {
  log.Println("sessions apply...")
  session, err := h.Repository.Apply(account, cookie, slot)
  if err != nil {
    return
  }
  if err = h.Repository.Verify(session); err != nil {
    return
  }
  log.Println("session stored for", session.Account)
  return
}

func (h *SessionsHandler) Check() (err error) {
  log.Println("sessions check...")
  session, err := h.Repository.Load()
  if err != nil {
    return
  }
  if err = h.Repository.Verify(session); err != nil {
    return
  }
  log.Println("session is valid for", session.Account)
  return
}
