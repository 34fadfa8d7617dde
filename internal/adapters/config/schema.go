package config

// File represents the structure of the optional config.yaml file.
type File struct {
	CacheDir string   `yaml:"cache_dir"`
	Compiler []string `yaml:"compiler"`
	TempDir  string   `yaml:"temp_dir"`
	// LogFormat is "pretty" (default) or "json".
	LogFormat string `yaml:"log_format"`
}
