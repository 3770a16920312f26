// Package config holds the process configuration. Each binary loads its
// struct once at startup and passes it down by value; nothing reads the
// environment after that.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type API struct {
	Addr    string `envconfig:"ADDR" default:":8080"`
	DataDir string `envconfig:"DATA_DIR" default:"./data"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"dev-secret"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"30m"`

	Debug          bool   `envconfig:"DEBUG" default:"false"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"false"`
	MetricsToken   string `envconfig:"METRICS_TOKEN"`
}

type Front struct {
	Addr       string `envconfig:"ADDR" default:":8081"`
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:8080"`

	SessionKey string `envconfig:"SESSION_KEY" default:"dev-session-key"`

	Debug          bool   `envconfig:"DEBUG" default:"false"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"false"`
	MetricsToken   string `envconfig:"METRICS_TOKEN"`
}

func LoadAPI() (API, error) {
	var c API
	err := envconfig.Process("api", &c)
	return c, err
}

func LoadFront() (Front, error) {
	var c Front
	err := envconfig.Process("front", &c)
	return c, err
}
