// internal/config/database.go
package config

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// DSN returns the postgres connection string. DATABASE_URL wins over the discrete settings.
func (d *DatabaseConfig) DSN() (string, error) {
	if d.URL != "" {
		dsn, err := pq.ParseURL(d.URL)
		if err != nil {
			return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		return dsn, nil
	}

	pairs := []struct{ key, value string }{
		{"host", d.Host},
		{"port", d.Port},
		{"user", d.User},
		{"password", d.Password},
		{"dbname", d.Database},
		{"sslmode", d.SSLMode},
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		// Same quoting as pq.ParseURL so spaces and quotes survive.
		parts = append(parts, p.key+"='"+dsnEscaper.Replace(p.value)+"'")
	}
	return strings.Join(parts, " "), nil
}
