package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
	"github.com/yanqian/crop-advisor/internal/infra/config"
	"github.com/yanqian/crop-advisor/internal/infra/predictor"
	"github.com/yanqian/crop-advisor/pkg/logger"
)

// cli carries flags shared by every subcommand.
type cli struct {
	endpoint string
	timeout  time.Duration
	verbose  bool
	prompter prompter

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(p prompter) *cobra.Command {
	c := &cli{prompter: p}
	root := &cobra.Command{
		Use:   "cropctl",
		Short: "Ask the crop model which crop suits a field",
		Long: `cropctl sends soil and climate readings to the crop prediction service
and prints the recommended crop.

Examples:
  cropctl predict --N 90 --P 42 --K 43 --temperature 20.8 --humidity 82 --pH 6.5 --rainfall 202.9
  cropctl interactive
  cropctl crops`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.PersistentFlags().StringVar(&c.endpoint, "endpoint", "", "prediction endpoint (defaults to config)")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 0, "prediction request timeout (defaults to config)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.predictCmd(),
		c.interactiveCmd(),
		c.cropsCmd(),
		c.tokenCmd(),
	)
	return root
}

func (c *cli) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.endpoint != "" {
		cfg.Predictor.Endpoint = c.endpoint
	}
	if c.timeout > 0 {
		cfg.Predictor.Timeout = c.timeout
	}
	c.cfg = cfg
	c.logger = logger.NewCLI(c.verbose)
	return nil
}

// recommender builds a crop service that talks to the configured endpoint
// without history or popularity tracking.
func (c *cli) recommender() crop.Service {
	client := predictor.NewClient(c.cfg.Predictor.Endpoint, c.cfg.Predictor.Timeout)
	c.logger.Debug("prediction client ready", "endpoint", client.Endpoint())
	return crop.NewService(crop.Config{}, client, nil, nil, c.logger)
}
