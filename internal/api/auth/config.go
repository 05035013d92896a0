package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type envConfig struct {
	// username:password pairs, comma separated
	UserList   []string      `env:"AUTH_USERS" envSeparator:"," envDefault:"admin:admin015"`
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"24h"`
	JWTSecret  string        `env:"AUTH_JWT_SECRET,unset"`
	JWTTTL     time.Duration `env:"AUTH_JWT_TTL" envDefault:"12h"`

	Users Credentials
}

func NewConfig() (*envConfig, error) {
	cfg := &envConfig{}
	if err := env.Parse(cfg, env.Options{}); err != nil {
		return nil, err
	}
	users, err := parseUsers(cfg.UserList)
	if err != nil {
		return nil, err
	}
	cfg.Users = users
	return cfg, nil
}

func parseUsers(pairs []string) (Credentials, error) {
	users := make(Credentials, len(pairs))
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		username, password, ok := strings.Cut(pair, ":")
		if !ok || username == "" {
			return nil, fmt.Errorf("AUTH_USERS: entry %q is not username:password", pair)
		}
		users[username] = password
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("AUTH_USERS: no users configured")
	}
	return users, nil
}
