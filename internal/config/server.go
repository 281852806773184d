package config

import (
	"errors"
	"fmt"
	"strings"
)

type ServerConfig struct {
	// Address is empty when the HTTP API is disabled.
	Address   string `env:"SERVER_ADDRESS"`
	BasicAuth string `env:"SERVER_BASIC_AUTH"`
}

// Creds parses SERVER_BASIC_AUTH in the form user1:pass1,user2:pass2.
func (c ServerConfig) Creds() (map[string]string, error) {
	result := make(map[string]string)
	if strings.TrimSpace(c.BasicAuth) == "" {
		return result, nil
	}

	for _, cred := range strings.Split(c.BasicAuth, ",") {
		user, pass, ok := strings.Cut(cred, ":")
		user, pass = strings.TrimSpace(user), strings.TrimSpace(pass)
		if !ok || user == "" {
			return nil, fmt.Errorf("failed to parse %q, each credential should be delimited by a colon -- user1:pass1,user2:pass2", cred)
		}
		result[user] = pass
	}

	if len(result) == 0 {
		return nil, errors.New("SERVER_BASIC_AUTH holds no credentials")
	}
	return result, nil
}
