package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSearch()
	c.normalizeMatching()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ManifestPath) == "" {
		c.Paths.ManifestPath = defaultManifestPath
	}
	if c.Paths.ManifestPath, err = expandPath(c.Paths.ManifestPath); err != nil {
		return fmt.Errorf("paths.manifest_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.CachePath) == "" {
		c.Paths.CachePath = defaultCachePath
	}
	if c.Paths.CachePath, err = expandPath(c.Paths.CachePath); err != nil {
		return fmt.Errorf("paths.cache_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDBPath) != "" {
		if c.Paths.HistoryDBPath, err = expandPath(c.Paths.HistoryDBPath); err != nil {
			return fmt.Errorf("paths.history_db_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeSearch() {
	c.Search.Binary = strings.TrimSpace(c.Search.Binary)
	if c.Search.Binary == "" {
		c.Search.Binary = defaultSearchBinary
	}
	c.Search.Publisher = strings.TrimSpace(c.Search.Publisher)
	c.Search.ChannelNameMatch = strings.TrimSpace(c.Search.ChannelNameMatch)

	ids := make([]string, 0, len(c.Search.ChannelIDs))
	for _, id := range c.Search.ChannelIDs {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	c.Search.ChannelIDs = ids

	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = defaultMaxResults
	}
	if c.Search.TimeoutSeconds <= 0 {
		c.Search.TimeoutSeconds = defaultSearchTimeoutSeconds
	}
	if c.Search.SocketTimeoutSeconds <= 0 {
		c.Search.SocketTimeoutSeconds = defaultSocketTimeoutSeconds
	}
	if c.Search.PaceMilliseconds <= 0 {
		c.Search.PaceMilliseconds = defaultPaceMilliseconds
	}
}

func (c *Config) normalizeMatching() {
	if c.Matching.AcceptThreshold <= 0 {
		c.Matching.AcceptThreshold = defaultAcceptThreshold
	}
	if c.Matching.WordOverlapWeight <= 0 {
		c.Matching.WordOverlapWeight = defaultWordOverlapWeight
	}
	if c.Matching.ChannelBonus <= 0 {
		c.Matching.ChannelBonus = defaultChannelBonus
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
