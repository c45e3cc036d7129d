package main

import (
  "log"
  "os"
  "path"
  "path/filepath"

  "github.com/joho/godotenv"
  "github.com/urfave/cli/v2"

  "scraper.local/dm-archiver/commands"
)

func main() {
  if err := godotenv.Load(path.Join(filepath.Dir(os.Args[0]), ".env")); err != nil {
    dir, _ := os.Getwd()
    godotenv.Load(path.Join(dir, ".env"))
  }

  app := &cli.App{
    Name:  "dmarchiver commands",
    Usage: "",
    Action: func(c *cli.Context) error {
      cli.ShowAppHelp(c)
      return nil
    },
    Commands: []*cli.Command{
      commands.NewSessionsCommand(),
      commands.NewThreadsCommand(),
      commands.NewArchiveCommand(),
      commands.NewWatchCommand(),
      commands.NewApiCommand(),
    },
    Version: "0.0.0",
  }

  err := app.Run(os.Args)
  if err != nil {
    log.Fatalln("error", err)
  }
}
