package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/phrazzld/upscayl-gateway/internal/config"
	"github.com/phrazzld/upscayl-gateway/internal/platform/logger"
	"github.com/phrazzld/upscayl-gateway/internal/platform/upscayl"
	"github.com/phrazzld/upscayl-gateway/internal/upscale"
)

type commandContext struct {
	configFlag  *string
	jsonFlag    *bool
	verboseFlag *bool
	opts        []upscale.Option

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag, verboseFlag *bool, opts []upscale.Option) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		jsonFlag:    jsonFlag,
		verboseFlag: verboseFlag,
		opts:        opts,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		dir := "."
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			dir = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.LoadFrom(dir)
		if err != nil {
			c.configErr = fmt.Errorf("load configuration: %w", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// logger writes warnings, or everything with --verbose, to stderr so that
// stdout only carries command output.
func (c *commandContext) logger(stderr io.Writer) *slog.Logger {
	level := "warn"
	if c.verboseFlag != nil && *c.verboseFlag {
		level = "debug"
	}
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: level}, stderr)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}

// withOrchestrator builds the remote client and orchestrator from the loaded
// configuration and runs fn with them.
func (c *commandContext) withOrchestrator(stderr io.Writer, fn func(*upscale.Orchestrator, *upscayl.Client) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	log := c.logger(stderr)

	client, err := upscayl.NewClient(upscayl.Options{
		BaseURL:       cfg.Remote.APIURL,
		AssetBaseURL:  cfg.Remote.AssetBaseURL,
		APIKey:        cfg.Remote.APIKey,
		StartTimeout:  cfg.Remote.StartTimeout(),
		StatusTimeout: cfg.Remote.StatusTimeout(),
	}, log)
	if err != nil {
		return fmt.Errorf("create remote client: %w", err)
	}
	defer client.Close()

	opts := append([]upscale.Option{upscale.WithDefaultMaxWait(cfg.Polling.MaxWait())}, c.opts...)
	orchestrator, err := upscale.NewOrchestrator(client, client.Normalizer(), log, opts...)
	if err != nil {
		return fmt.Errorf("create orchestrator: %w", err)
	}

	return fn(orchestrator, client)
}
