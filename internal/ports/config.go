package ports

import (
	"net"
	"strconv"
)

const redactedSecret = "********"

// BotConfig is resolved once at startup and never mutated afterwards.
// Collaborators receive it by value.
type BotConfig struct {
	Network string
	Port    int
	Channel string

	Nickname string
	Username string
	Password string

	Masters    []string
	HiscoresDB string
	Verbose    bool

	LogLevel   string
	HealthPort int
}

// IsMaster reports whether nick may issue privileged commands.
// Matching is exact, including case.
func (c BotConfig) IsMaster(nick string) bool {
	for _, m := range c.Masters {
		if m == nick {
			return true
		}
	}
	return false
}

// UsesServicesAuth is false when no password is configured.
func (c BotConfig) UsesServicesAuth() bool {
	return c.Password != ""
}

func (c BotConfig) Address() string {
	return net.JoinHostPort(c.Network, strconv.Itoa(c.Port))
}

// Redacted returns a copy safe for logs and status endpoints.
func (c BotConfig) Redacted() BotConfig {
	out := c
	out.Masters = append([]string(nil), c.Masters...)
	if out.Password != "" {
		out.Password = redactedSecret
	}
	return out
}

type ConfigReader interface {
	GetConfig() BotConfig
}
