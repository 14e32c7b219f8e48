package config

type Config struct {
	Server  ServerConfig
	Speech  SpeechConfig
	Notify  NotifyConfig
	Storage StorageConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type SpeechConfig struct {
	BaseURL string
	Locale  string
}

type NotifyConfig struct {
	WebhookURL string
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4600,
		},
		Speech: SpeechConfig{
			BaseURL: "http://localhost:5002",
			Locale:  "hi-IN",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON config file at
// $XDG_CONFIG_HOME/yaad/config.json, then applies YAAD_* environment
// variable overrides.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}
