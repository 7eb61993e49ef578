package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cronhq/cron-console/internal/config"
	"github.com/cronhq/cron-console/internal/console"
	"github.com/cronhq/cron-console/internal/controller"
	"github.com/cronhq/cron-console/internal/transport"
	"github.com/dimiro1/banner"
	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

const bannerText = `
{{ .Title "Cron Console" "" 0 }}
{{ .AnsiBackground.BrightBlue }}{{ .AnsiColor.White }}
{{ .AnsiReset }}
`

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load(".env.local"); err != nil {
			fmt.Printf("No .env or .env.local file found. Using environment variables.\n")
		}
	}

	banner.Init(colorable.NewColorableStdout(), true, true, strings.NewReader(bannerText))

	configPath := flag.String("config", "config/config.json", "path to config file")
	profilesPath := flag.String("profiles", "", "path to profiles.yaml")
	profileName := flag.String("profile", "", "named server profile to use")
	serverURL := flag.String("server", "", "backend base URL (overrides config)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   false,
		TimestampFormat: "2006-01-02T15:04:05-07:00",
	})
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	if *profileName != "" {
		if *profilesPath == "" {
			*profilesPath = "config/profiles.yaml"
		}
		profiles, err := config.LoadProfiles(*profilesPath)
		if err != nil {
			logger.Fatalf("Failed to load profiles: %v", err)
		}
		profile, err := profiles.Get(*profileName)
		if err != nil {
			logger.Fatalf("Unknown profile: %v", err)
		}
		cfg.Server.BaseURL = profile.BaseURL
		if profile.Timeout != "" {
			cfg.Server.Timeout = profile.Timeout
		}
	}

	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	client, err := transport.New(cfg.Server.BaseURL, timeout, logger)
	if err != nil {
		logger.Fatalf("Failed to build client: %v", err)
	}

	out := colorable.NewColorableStdout()
	in := bufio.NewScanner(os.Stdin)
	confirm := console.Confirm(in, out)

	view := console.NewTableView(out)
	notifier := console.NewToneNotifier(out)
	ctrl := controller.New(client, logger, view, notifier, confirm)
	logs := controller.NewLogViewer(client, logger, view, notifier, confirm)

	logger.Infof("Connected to %s - type 'help' for commands.", cfg.Server.BaseURL)

	c := console.New(ctrl, logs, view, in, out, logger)
	if err := c.Run(context.Background()); err != nil && err != context.Canceled {
		logger.Fatalf("Console exited: %v", err)
	}
}
