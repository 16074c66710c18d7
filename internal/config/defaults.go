package config

func boolPtr(b bool) *bool { return &b }

func DefaultConfig() Config {
	return Config{
		View: ViewConfig{
			Format:         "auto",
			ScrollSpeed:    3,
			ShowConsole:    boolPtr(true),
			ExpandFailures: boolPtr(true),
		},
		Source: SourceConfig{
			Follow:         boolPtr(true),
			PollIntervalMs: 100,
			BatchSize:      500,
		},
		Update: UpdateConfig{
			Repo: "justinpbarnett/logtree",
		},
	}
}

// Enabled dereferences an optional flag, treating nil as false.
func Enabled(b *bool) bool {
	return b != nil && *b
}
