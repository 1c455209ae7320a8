package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"lessonlink/internal/config"
	"lessonlink/internal/logging"
	"lessonlink/internal/manifest"
	"lessonlink/internal/matching"
	"lessonlink/internal/videocache"
	"lessonlink/internal/ytsearch"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// logger builds the configured logger, falling back to a no-op logger when
// log setup fails so read-only commands still work.
func (c *commandContext) logger() *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) manifestStore() (*manifest.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return manifest.NewStore(cfg.Paths.ManifestPath), nil
}

func (c *commandContext) openCache(logger *slog.Logger) (*videocache.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return videocache.Open(cfg.Paths.CachePath, logger), nil
}

func (c *commandContext) matchingPolicy() matching.Policy {
	cfg, err := c.ensureConfig()
	if err != nil {
		return matching.DefaultPolicy()
	}
	return matching.Policy{
		AcceptThreshold:   cfg.Matching.AcceptThreshold,
		WordOverlapWeight: cfg.Matching.WordOverlapWeight,
		ChannelBonus:      cfg.Matching.ChannelBonus,
		ChannelIDs:        cfg.Search.ChannelIDs,
		ChannelNameMatch:  cfg.Search.ChannelNameMatch,
	}
}

func (c *commandContext) searchProvider(logger *slog.Logger) (ytsearch.Provider, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return ytsearch.NewCLI(
		ytsearch.WithBinary(cfg.Search.Binary),
		ytsearch.WithMaxResults(cfg.Search.MaxResults),
		ytsearch.WithSocketTimeout(cfg.Search.SocketTimeoutSeconds),
		ytsearch.WithLogger(logger),
	), nil
}

func (c *commandContext) pace() time.Duration {
	cfg, err := c.ensureConfig()
	if err != nil {
		return 0
	}
	return time.Duration(cfg.Search.PaceMilliseconds) * time.Millisecond
}

func (c *commandContext) searchTimeout() time.Duration {
	cfg, err := c.ensureConfig()
	if err != nil {
		return 0
	}
	return time.Duration(cfg.Search.TimeoutSeconds) * time.Second
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
