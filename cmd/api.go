package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/marketsnap/internal/ai"
	"github.com/marketsnap/internal/api"
	"github.com/marketsnap/internal/chat"
	"github.com/marketsnap/internal/config"
	"github.com/marketsnap/internal/feed"
	"github.com/marketsnap/internal/store"
	"github.com/marketsnap/internal/story"
)

// APICommand returns the CLI command for starting the API server
func APICommand() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Start the MarketSnap API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the API server (overrides config)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			port := c.Int("port")
			if port == 0 {
				port = cfg.Server.Port
			}

			client := newGenerationClient(c.Context, cfg)
			st := store.NewStore()
			feedCtl := feed.NewController(st)
			chatCtl := chat.NewController(st, client)
			player := story.NewPlayer(feedCtl, time.Duration(cfg.Story.TickIntervalMs)*time.Millisecond)

			fmt.Printf("Starting MarketSnap API server on port %d...\n", port)
			server := api.NewServer(port, st, feedCtl, chatCtl, player, client)
			return server.Start()
		},
	}
}

// newGenerationClient builds the text-generation client. Without a
// credential, or when the backend client cannot be constructed, the returned
// client serves canned placeholder text instead of failing.
func newGenerationClient(ctx context.Context, cfg *config.Config) *ai.Client {
	if cfg.AI.APIKey == "" {
		log.Warn().Msg("No AI api_key configured; generation returns placeholder text")
		return ai.NewClient(nil)
	}

	generator, err := ai.NewGeminiGenerator(ctx, ai.GeminiOptions{
		APIKey:            cfg.AI.APIKey,
		Model:             cfg.AI.Model,
		Temperature:       cfg.AI.Temperature,
		MaxTokens:         cfg.AI.MaxTokens,
		RequestsPerMinute: cfg.AI.RequestsPerMinute,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Gemini generator; generation returns placeholder text")
		return ai.NewClient(nil)
	}

	return ai.NewClient(generator)
}
