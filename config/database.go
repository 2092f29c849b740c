package config

// DBConfig contains PostgreSQL database configuration for the share and
// guest directory tables.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"sharelink"`
	Password string `env:"PASSWORD" envDefault:"sharelink"`
	Name     string `env:"NAME"     envDefault:"sharelink"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
}

// RedisConfig contains Redis configuration for the guest session store.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}
