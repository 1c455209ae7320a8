package config

const (
	defaultManifestPath  = "courses_manifest.json"
	defaultCachePath     = "video_cache.json"
	defaultLogDir        = "~/.local/share/lessonlink/logs"
	defaultHistoryDBPath = "~/.local/share/lessonlink/history.db"

	defaultSearchBinary         = "yt-dlp"
	defaultPublisher            = "khan academy"
	defaultChannelNameMatch     = "Khan"
	defaultMaxResults           = 5
	defaultSearchTimeoutSeconds = 30
	defaultSocketTimeoutSeconds = 10
	defaultPaceMilliseconds     = 500

	defaultAcceptThreshold   = 0.3
	defaultWordOverlapWeight = 0.3
	defaultChannelBonus      = 0.2

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// defaultChannelID is Khan Academy's YouTube channel.
const defaultChannelID = "UC4a-Gbdw7vOaccHmFo40b9g"

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ManifestPath:  defaultManifestPath,
			CachePath:     defaultCachePath,
			LogDir:        defaultLogDir,
			HistoryDBPath: defaultHistoryDBPath,
		},
		Search: Search{
			Binary:               defaultSearchBinary,
			Publisher:            defaultPublisher,
			ChannelIDs:           []string{defaultChannelID},
			ChannelNameMatch:     defaultChannelNameMatch,
			MaxResults:           defaultMaxResults,
			TimeoutSeconds:       defaultSearchTimeoutSeconds,
			SocketTimeoutSeconds: defaultSocketTimeoutSeconds,
			PaceMilliseconds:     defaultPaceMilliseconds,
		},
		Matching: Matching{
			AcceptThreshold:   defaultAcceptThreshold,
			WordOverlapWeight: defaultWordOverlapWeight,
			ChannelBonus:      defaultChannelBonus,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
