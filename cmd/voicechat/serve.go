package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lumora-ai/voicechat/pipeline"
	"github.com/lumora-ai/voicechat/pkg/logger"
)

type serveCommander struct {
	configPath string
	listen     string
	upstream   string
	model      string
	dbPath     string
	debug      bool
}

func newServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the voice-chat HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to TOML config file")
	cmd.Flags().StringVar(&cmder.listen, "listen", "", "Address to listen on (overrides config)")
	cmd.Flags().StringVar(&cmder.upstream, "upstream", "", "Language-model base URL (overrides config)")
	cmd.Flags().StringVar(&cmder.model, "model", "", "Model name (overrides config)")
	cmd.Flags().StringVar(&cmder.dbPath, "db", "", "SQLite turn archive path (overrides config)")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *serveCommander) run(cmd *cobra.Command) error {
	config, err := pipeline.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	if c.listen != "" {
		config.Listen = c.listen
	}
	if c.upstream != "" {
		config.UpstreamURL = c.upstream
	}
	if c.model != "" {
		config.Model = c.model
	}
	if c.dbPath != "" {
		config.DBPath = c.dbPath
	}
	if c.debug {
		config.Debug = true
	}

	log := logger.New(config.Debug)
	defer log.Sync()

	log.Info("voicechat starting",
		zap.String("listen", config.Listen),
		zap.String("upstream", config.UpstreamURL),
		zap.String("model", config.Model),
		zap.Bool("debug", config.Debug),
	)

	p, err := pipeline.New(config, log)
	if err != nil {
		return err
	}
	defer p.Close()

	return p.Run()
}
