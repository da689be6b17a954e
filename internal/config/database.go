package config

import "fmt"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DBConfig struct {
	Driver string `env:"DB_DRIVER, default=sqlite"`

	// sqlite
	Path string `env:"DB_PATH, default=evaluations.db"`

	// postgres
	Host     string `env:"DB_HOST, default=localhost"`
	Port     string `env:"DB_PORT, default=5432"`
	User     string `env:"DB_USER, default=postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME, default=evaluations"`
	SSLMode  string `env:"DB_SSLMODE, default=disable"`
	TimeZone string `env:"DB_TIMEZONE, default=UTC"`
}

func (c DBConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host,
		c.User,
		c.Password,
		c.Name,
		c.Port,
		c.SSLMode,
		c.TimeZone,
	)
}

// SQLiteDSN enables WAL and a busy timeout so concurrent requests wait for the
// writer instead of failing with "database is locked".
func (c DBConfig) SQLiteDSN() string {
	return c.Path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}
