// Command collabtail follows a Collab-Hub channel or direct conversation in the terminal.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/yigit/collabhub/internal/pkg/logger"
	"github.com/yigit/collabhub/internal/realtime"
	"github.com/yigit/collabhub/internal/realtime/feed"
)

func main() {
	app := &cli.App{
		Name:  "collabtail",
		Usage: "follow a channel or direct conversation live",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "base URL of the Collab-Hub API",
				Value:   "http://localhost:8080",
				EnvVars: []string{"COLLABHUB_SERVER"},
			},
			&cli.StringFlag{
				Name:     "token",
				Usage:    "access token returned by /api/login",
				EnvVars:  []string{"COLLABHUB_TOKEN"},
				Required: true,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "number of past messages to show",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log subscription details",
			},
		},
		Before: func(c *cli.Context) error {
			level := logger.WarnLevel
			if c.Bool("debug") {
				level = logger.DebugLevel
			}
			logger.Configure(logger.Config{Level: level, Pretty: true, Output: os.Stderr})
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "channel",
				Usage: "follow a project channel",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "project", Aliases: []string{"p"}, Required: true},
					&cli.Int64Flag{Name: "channel", Aliases: []string{"c"}, Required: true},
				},
				Action: func(c *cli.Context) error {
					path := fmt.Sprintf("/projects/%d/channels/%d", c.Int64("project"), c.Int64("channel"))
					return tail(c, path+"/messages", path)
				},
			},
			{
				Name:  "dm",
				Usage: "follow a direct conversation",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "user", Aliases: []string{"u"}, Required: true},
				},
				Action: func(c *cli.Context) error {
					path := fmt.Sprintf("/direct-messages/users/%d", c.Int64("user"))
					return tail(c, path, path)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("collabtail failed")
		os.Exit(1)
	}
}

// tail prints the latest page of pagePath, then every change published on the subscription of subscribePath
func tail(c *cli.Context, pagePath, subscribePath string) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	lgr := logger.Get()
	client := newAPIClient(c.String("server"), c.String("token"))

	initial, err := client.fetchPage(ctx, pagePath, c.Int("limit"))
	if err != nil {
		return err
	}
	f := feed.New(client, initial)
	if err := f.ResolveAuthors(ctx); err != nil {
		lgr.Warn().Err(err).Msg("Could not resolve every author")
	}
	out := c.App.Writer
	for _, it := range f.Items() {
		printItem(out, "", it)
	}

	wsURL, err := client.websocketURL(subscribePath)
	if err != nil {
		return err
	}
	lgr.Debug().Str("url", wsURL).Msg("Subscribing")

	return realtime.NewSubscriber(lgr).Subscribe(ctx, wsURL, client.token, func(ev realtime.Event) {
		if err := f.Apply(ctx, ev); err != nil {
			lgr.Warn().Err(err).Str("eventType", string(ev.EventType)).Msg("Could not apply event")
			return
		}
		report(out, f, ev, lgr)
	})
}

func report(out io.Writer, f *feed.Feed, ev realtime.Event, lgr zerolog.Logger) {
	var id int64
	var marker string
	switch ev.EventType {
	case realtime.EventInsert:
		id = feedItemID(ev.New)
	case realtime.EventUpdate:
		id, marker = feedItemID(ev.New), "(edited) "
	case realtime.EventDelete:
		fmt.Fprintf(out, "-- message %d deleted\n", feedItemID(ev.Old))
		return
	}

	for _, it := range f.Items() {
		if it.ID == id {
			printItem(out, marker, it)
			return
		}
	}
	lgr.Debug().Int64("id", id).Msg("Event for a message outside the feed")
}

func printItem(out io.Writer, marker string, it feed.Item) {
	author := fmt.Sprintf("user#%d", it.AuthorID())
	if it.Author != nil {
		author = it.Author.Username
	}
	fmt.Fprintf(out, "[%s] %s%s: %s\n", it.Timestamp.Local().Format("2006-01-02 15:04"), marker, author, it.Content)
}

func feedItemID(raw json.RawMessage) int64 {
	var row struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(raw, &row)
	return row.ID
}
