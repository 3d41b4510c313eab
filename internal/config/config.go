package config

import (
	"fmt"
	"os"

	"github.com/go-yaml/yaml"

	"github.com/totegamma/textcanon/internal/domain"
	"github.com/totegamma/textcanon/normalize"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server        Server                     `yaml:"server"`
	Ledger        domain.LedgerConfig        `yaml:"ledger"`
	Normalization map[string]normalize.Table `yaml:"normalization"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	Driver        string `yaml:"driver"` // postgres, sqlite
	PostgresDsn   string `yaml:"postgresDsn"`
	SQLitePath    string `yaml:"sqlitePath"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

func Default() Config {
	return Config{
		Server: Server{
			Listen:        ":8000",
			Driver:        DriverPostgres,
			PostgresDsn:   "host=localhost user=postgres password=postgres dbname=postgres port=5432 sslmode=disable",
			SQLitePath:    "textcanon.db",
			TraceEndpoint: "localhost:4318",
		},
		Ledger: domain.LedgerConfig{RevisionScope: domain.RevisionScopeContent},
	}
}

// Load reads path over the defaults.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	config := Default()
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	switch c.Server.Driver {
	case DriverPostgres:
		if c.Server.PostgresDsn == "" {
			return fmt.Errorf("server.postgresDsn is required for the postgres driver")
		}
	case DriverSQLite:
		if c.Server.SQLitePath == "" {
			return fmt.Errorf("server.sqlitePath is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown server.driver %q", c.Server.Driver)
	}

	if c.Ledger.RevisionScope != "" && !c.Ledger.RevisionScope.Valid() {
		return fmt.Errorf("unknown ledger.revisionScope %q", c.Ledger.RevisionScope)
	}
	return nil
}
