package config

import "time"

// Woot describes the upstream feed service. APIKey is optional at parse
// time; a refresh request without a credential fails with MissingAPIKey.
type Woot struct {
	BaseURL        string        `env:"WOOT_BASE_URL" envDefault:"https://developer.woot.com"`
	APIKey         string        `env:"WOOT_API_KEY" json:"-"`
	Feeds          []string      `env:"WOOT_FEEDS" envSeparator:"," envDefault:"All,Clearance,Computers,Electronics,Featured,Home,Gourmet,Shirts,Sports,Tools,Wootoff"`
	AttemptTimeout time.Duration `env:"WOOT_ATTEMPT_TIMEOUT" envDefault:"10s"`
}
