package config

// Redis is optional: when Address is empty the scheduled refresh runs on an
// in-process ticker instead of the asynq scheduler.
type Redis struct {
	Address  string `env:"REDIS_ADDRESS"`
	Username string `env:"REDIS_USERNAME"`
	Password string `env:"REDIS_PASSWORD" json:"-"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}
