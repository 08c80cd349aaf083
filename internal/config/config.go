package config

// Config is everything the suite needs, loaded once at startup and passed
// explicitly to the components that need it.
type Config struct {
	Target  TargetConfig
	Browser BrowserConfig
	Logger  LoggerConfig
	Server  ServerConfig
}

// Load builds a Config from getenv, typically os.Getenv after godotenv has
// populated the environment.
func Load(getenv func(string) string) (*Config, error) {
	browser, err := LoadBrowserConfig(getenv)
	if err != nil {
		return nil, err
	}
	logger, err := LoadLoggerConfig(getenv)
	if err != nil {
		return nil, err
	}
	return &Config{
		Target:  LoadTargetConfig(getenv),
		Browser: browser,
		Logger:  logger,
		Server:  LoadServerConfig(getenv),
	}, nil
}
