package commands

import (
  "fmt"
  "log"
  "net/http"
  "os"

  "github.com/go-chi/chi/v5"
  "github.com/urfave/cli/v2"

  "scraper.local/dm-archiver/api/v1"
)

type ApiHandler struct {
  Dir string
}

func NewApiCommand() *cli.Command {
  var h ApiHandler
  return &cli.Command{
    Name:  "api",
    Usage: "serve the archived transcripts over a json api",
    Flags: []cli.Flag{
      &cli.StringFlag{
        Name:  "dir",
        Usage: "directory holding the transcripts",
      },
    },
    Before: func(c *cli.Context) error {
      h = ApiHandler{
        Dir: c.String("dir"),
      }
      return nil
    },
    Action: func(c *cli.Context) error {
      if err := h.Run(); err != nil {
        return cli.Exit(err.Error(), 1)
      }
      return nil
    },
  }
}

func (h *ApiHandler) Run() error {
  log.Println("api running...")

  r := chi.NewRouter()
  r.Route("/v1", func(r chi.Router) {
    r.Mount("/conversations", v1.NewConversationsRouter(h.Dir))
  })

  return http.ListenAndServe(
    fmt.Sprintf("127.0.0.1:%v", os.Getenv("ARCHIVER_API_PORT")),
    r,
  )
}
