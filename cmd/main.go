package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stockpanel/cmd/remote"
	"stockpanel/cmd/scrape"
	"stockpanel/cmd/tailer"
	"stockpanel/src/app"
	"stockpanel/src/connectors"
	"stockpanel/src/database"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var Version string

func main() {
	_ = godotenv.Load()

	cliApp := cli.NewApp()
	cliApp.Name = "stockpanel"
	cliApp.Usage = "The stock panel command line interface"
	cliApp.Version = Version

	cliApp.Commands = []cli.Command{
		serveCMD,
		scrapeCMD,
		migrateCMD,
		tailLogsCMD,
		statusCMD,
		startCMD,
		stopCMD,
	}

	if err := cliApp.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the HTTP panel",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Serve the stock panel pages and API`,
	}
	scrapeCMD = cli.Command{
		Name:        "scrape",
		Usage:       "run the stock 1D scrape script once",
		Action:      scrapeAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the scrape script in the foreground and print its output`,
	}
	migrateCMD = cli.Command{
		Name:        "migrate",
		Usage:       "create missing tables and run data migrations",
		Action:      migrateAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run schema and data migrations against DATABASE_URL_MAIN`,
	}
	tailLogsCMD = cli.Command{
		Name:      "tail-logs",
		Usage:     "follow the script log of a running panel",
		Action:    tailLogsAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "addr", Usage: "panel base URL", EnvVar: "PANEL_URL"},
			cli.DurationFlag{Name: "interval", Usage: "poll interval", Value: tailer.DefaultInterval},
		},
		Description: `Poll /get-logs and print new lines`,
	}
	statusCMD = cli.Command{
		Name:      "status",
		Usage:     "show whether a panel is running the script",
		Action:    statusAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "addr", Usage: "panel base URL", EnvVar: "PANEL_URL"},
		},
		Description: `Query /script-status of a running panel`,
	}
	startCMD = cli.Command{
		Name:      "start",
		Usage:     "start the scrape script on a running panel",
		Action:    startAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "addr", Usage: "panel base URL", EnvVar: "PANEL_URL"},
		},
		Description: `Call /run-stock-1d-scrap of a running panel`,
	}
	stopCMD = cli.Command{
		Name:      "stop",
		Usage:     "stop the scrape script on a running panel",
		Action:    stopAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "addr", Usage: "panel base URL", EnvVar: "PANEL_URL"},
		},
		Description: `Call /stop-stock-1d-scrap of a running panel`,
	}
)

func serveAction(_ *cli.Context) error {
	logrus.Info("Starting serve CMD")

	app.ConfigureEncoding()

	a, err := app.New(context.Background())
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}
	defer a.Close()

	return a.Run()
}

func scrapeAction(_ *cli.Context) error {
	logrus.Info("Starting scrape CMD")

	s := &scrape.Scrape{
		Log: logrus.WithField("cmd", "scrape"),
		Out: os.Stdout,
	}
	if err := s.Start(); err != nil {
		logrus.WithError(err).Error("Starting scrape cmd")
		return err
	}

	return nil
}

func migrateAction(_ *cli.Context) error {
	logrus.Info("Starting migrate CMD")

	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Error("Failed to connect to database")
		return err
	}
	defer database.Close()

	return database.Migrate(database.MainDB)
}

func panelClient(c *cli.Context) *connectors.PanelClient {
	config := connectors.GetConfig()
	addr := c.String("addr")
	if addr == "" {
		addr = config.PanelURL
	}
	return connectors.NewPanelClient(addr, config.PanelTimeout)
}

func tailLogsAction(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	t := &tailer.Tailer{
		Source:   panelClient(c),
		Interval: c.Duration("interval"),
		Out:      os.Stdout,
		Log:      logrus.WithField("cmd", "tail-logs"),
	}
	return t.Start(ctx)
}

func remoteFor(c *cli.Context) *remote.Remote {
	return &remote.Remote{Panel: panelClient(c), Out: os.Stdout}
}

func statusAction(c *cli.Context) error {
	return remoteFor(c).Status(context.Background())
}

func startAction(c *cli.Context) error {
	return remoteFor(c).Start(context.Background())
}

func stopAction(c *cli.Context) error {
	return remoteFor(c).Stop(context.Background())
}
