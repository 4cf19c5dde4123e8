package config

type Storage struct {
	LowsFile     string `env:"LOWS_FILE" envDefault:"historical_lows.json"`
	SettingsFile string `env:"SETTINGS_FILE" envDefault:"bot_settings.json"`
}
