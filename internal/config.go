package internal

import (
	"flag"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	APIAddress     string        `env:"ORDERS_API_ADDRESS" env-default:"http://localhost:5092"`
	ListenAddress  string        `env:"ORDERS_LISTEN_ADDRESS" env-default:"localhost:5092"`
	DebounceWindow time.Duration `env:"ORDERS_DEBOUNCE_WINDOW"`
}

// NewConfig reads the environment first, then lets flags override it.
func NewConfig() (*Config, error) {
	c := new(Config)
	if err := cleanenv.ReadEnv(c); err != nil {
		return nil, err
	}
	if c.DebounceWindow <= 0 {
		c.DebounceWindow = DefaultDebounceWindow
	}

	flag.StringVar(&c.APIAddress, "a", c.APIAddress, "orders api base url")
	flag.StringVar(&c.ListenAddress, "l", c.ListenAddress, "address for the stub api to listen on")
	flag.DurationVar(&c.DebounceWindow, "w", c.DebounceWindow, "quiet window before derived totals recompute")
	flag.Parse()

	return c, nil
}
