package config

type Bot struct {
	Token   string `env:"BOT_TOKEN,required" json:"-"`
	AdminID int64  `env:"BOT_ADMIN_ID,required"`
}
