package config

type Config struct {
	View   ViewConfig   `yaml:"view" toml:"view"`
	Source SourceConfig `yaml:"source" toml:"source"`
	Update UpdateConfig `yaml:"update" toml:"update"`
}

type ViewConfig struct {
	Format         string `yaml:"format" toml:"format"`
	ScrollSpeed    int    `yaml:"scroll_speed" toml:"scroll_speed"`
	ShowConsole    *bool  `yaml:"show_console" toml:"show_console"`
	ExpandFailures *bool  `yaml:"expand_failures" toml:"expand_failures"`
}

type SourceConfig struct {
	Follow         *bool `yaml:"follow" toml:"follow"`
	PollIntervalMs int   `yaml:"poll_interval_ms" toml:"poll_interval_ms"`
	BatchSize      int   `yaml:"batch_size" toml:"batch_size"`
}

type UpdateConfig struct {
	Repo string `yaml:"repo" toml:"repo"`
}
