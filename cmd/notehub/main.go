package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/mmcdole/notehub/internal/adapter"
	"github.com/mmcdole/notehub/internal/domain"
	"github.com/mmcdole/notehub/internal/notehub"
	"github.com/mmcdole/notehub/internal/server"
	"github.com/mmcdole/notehub/internal/service"
	"github.com/mmcdole/notehub/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "notehub",
		Usage:   "Search, browse, create and delete notes from the terminal",
		Version: Version,
		Action:  runTUI,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("NOTEHUB_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run a local notes API server with the same contract",
				Action: runServer,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "HTTP listen address (overrides server.listen)",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	loader := adapter.NewLoader(cmd.String("config"))
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting notehub", "version", Version, "config", loader.ConfigFileUsed())

	client := notehub.NewClient(cfg.API.BaseURL, cfg.API.Token, logger)
	client.SetTimeout(cfg.API.Timeout)

	if !cfg.IsConfigured() {
		token, err := runSetupFlow(ctx, client, cfg.API.PageSize)
		if err != nil {
			return err
		}
		if err := loader.SaveToken(token); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		logger.Info("saved API token", "config", loader.ConfigFileUsed())
	}

	loader.Watch(func(c *adapter.Config) {
		adapter.ApplyLogLevel(c.Logging.Level)
		logger.Info("config reloaded", "level", c.Logging.Level)
	}, func(err error) {
		logger.Warn("ignoring config change", "error", err)
	})

	svc := service.NewNoteService(client, service.NoteServiceOptions{
		PageSize:   cfg.API.PageSize,
		Retry:      cfg.Query.Retry,
		RetryDelay: cfg.Query.RetryDelay,
		StaleTime:  cfg.Query.StaleTime,
		Timeout:    cfg.API.Timeout,
	}, logger)

	model := tui.NewModel(svc, tui.Options{
		Debounce:    cfg.Query.Debounce,
		GCInterval:  cfg.Query.GCTime,
		GCTime:      cfg.Query.GCTime,
		Theme:       cfg.UI.Theme,
		ShowPreview: cfg.UI.ShowPreview,
		Logger:      logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow asks for an API token and checks it against the server
func runSetupFlow(ctx context.Context, client *notehub.Client, pageSize int) (string, error) {
	fmt.Println()
	fmt.Println("Welcome to NoteHub!")
	fmt.Println()

	for {
		fmt.Print("API token (input hidden): ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}

		token := strings.TrimSpace(string(raw))
		if token == "" {
			fmt.Println("Token cannot be empty. Please try again.")
			continue
		}

		fmt.Println("Checking token...")
		client.SetToken(token)
		_, err = client.FetchNotes(ctx, 1, pageSize, "")
		switch {
		case err == nil:
			fmt.Println("✓ Token accepted.")
			return token, nil
		case errors.Is(err, domain.ErrUnauthorized):
			fmt.Println("✗ The server rejected this token. Please try again.")
		default:
			return "", fmt.Errorf("could not reach the notes API: %w", err)
		}
	}
}

func runServer(ctx context.Context, cmd *cli.Command) error {
	loader := adapter.NewLoader(cmd.String("config"))
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := adapter.NewJSONLogger(os.Stdout, cfg.Logging.Level)
	slog.SetDefault(logger)

	listen := cfg.Server.Listen
	if l := cmd.String("listen"); l != "" {
		listen = l
	}

	return server.Run(ctx, server.Config{
		Listen:   listen,
		DBPath:   cfg.Server.DBPath,
		Token:    cfg.Server.Token,
		SeedFile: cfg.Server.SeedFile,
	}, logger)
}
