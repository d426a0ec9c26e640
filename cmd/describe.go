package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/marketsnap/internal/config"
)

// DescribeCommand returns the CLI command for generating a listing
// description without starting the server.
func DescribeCommand() *cli.Command {
	return &cli.Command{
		Name:  "describe",
		Usage: "Generate a marketplace listing description for an item",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "title",
				Aliases:  []string{"t"},
				Usage:    "Listing title",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Listing category",
			},
			&cli.Float64Flag{
				Name:  "price",
				Usage: "Listing price in dollars",
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

			price := c.Float64("price")
			if price < 0 {
				return fmt.Errorf("price must not be negative, got %v", price)
			}

			client := newGenerationClient(c.Context, cfg)
			description := client.GenerateListingDescription(c.Context, c.String("title"), c.String("category"), price)

			fmt.Println(description)
			return nil
		},
	}
}
