package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Paths.ManifestPath == "" {
		return errors.New("paths.manifest_path must be set")
	}
	if c.Paths.CachePath == "" {
		return errors.New("paths.cache_path must be set")
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.Publisher == "" {
		return errors.New("search.publisher must be set (the query prefix, e.g. \"khan academy\")")
	}
	if len(c.Search.ChannelIDs) == 0 && c.Search.ChannelNameMatch == "" {
		return errors.New("search requires channel_ids or channel_name_match so matches can be verified")
	}
	if c.Search.MaxResults > 50 {
		return fmt.Errorf("search.max_results must be at most 50, got %d", c.Search.MaxResults)
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.AcceptThreshold >= 2 {
		return fmt.Errorf("matching.accept_threshold %.2f exceeds the scorer's range", c.Matching.AcceptThreshold)
	}
	if c.Matching.WordOverlapWeight > 1 {
		return errors.New("matching.word_overlap_weight must be at most 1")
	}
	if c.Matching.ChannelBonus > 1 {
		return errors.New("matching.channel_bonus must be at most 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
