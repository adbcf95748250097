package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverMemory  = "memory"
	DriverSQLite  = "sqlite"
	DriverMariaDB = "mariadb"
	DriverRedis   = "redis"
	// DriverNone runs the library detached: seed data only, nothing persisted.
	DriverNone = "none"
)

type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"local"`
	UploadsPath string `yaml:"uploads_path" env:"UPLOADS_PATH" env-default:"./uploads"`
	Storage     `yaml:"storage"`
	HTTPServer  `yaml:"http_server"`
	Steam       `yaml:"steam"`
}

type Storage struct {
	Driver        string        `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	Namespace     string        `yaml:"namespace" env:"STORAGE_NAMESPACE" env-default:"games_library"`
	SchemaVersion int           `yaml:"schema_version" env:"SCHEMA_VERSION" env-default:"1"`
	Debounce      time.Duration `yaml:"debounce" env:"STORAGE_DEBOUNCE" env-default:"100ms"`
	PruneOrphans  bool          `yaml:"prune_orphans" env:"PRUNE_ORPHANS" env-default:"true"`
	SQLite        SQLite        `yaml:"sqlite"`
	Database      Database      `yaml:"database"`
	Redis         Redis         `yaml:"redis"`
	Memory        Memory        `yaml:"memory"`
}

type SQLite struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"./data/library.db"`
}

type Database struct {
	Host       string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port       int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	UsernameDB string `yaml:"username-db" env:"DB_USERNAME"`
	Password   string `yaml:"password" env:"DB_PASSWORD"`
	DBName     string `yaml:"dbname" env:"DB_NAME" env-default:"games"`
}

type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Memory struct {
	// Quota caps stored bytes; zero means unlimited.
	Quota int `yaml:"quota" env:"MEMORY_QUOTA" env-default:"5242880"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"127.0.0.1:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AllowRemote bool          `yaml:"allow_remote" env:"ALLOW_REMOTE" env-default:"false"`
}

type Steam struct {
	Timeout  time.Duration `yaml:"timeout" env-default:"5s"`
	Language string        `yaml:"language" env-default:"english"`
}

// MustLoad reads the file named by -config or CONFIG_PATH, or only the
// environment when neither is set, and exits on failure.
func MustLoad() *Config {
	configPath := flag.String("config", "", "path to config yaml file")
	flag.Parse()
	if *configPath == "" {
		*configPath = os.Getenv("CONFIG_PATH")
	}

	cfg, err := Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

// Load reads a YAML config file, or only the environment when path is empty.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read env: %w", err)
		}
		return &cfg, cfg.validate()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %s - %w", path, err)
	}

	return &cfg, cfg.validate()
}

func (cfg *Config) validate() error {
	switch cfg.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverMariaDB, DriverRedis, DriverNone:
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Storage.Namespace == "" {
		return errors.New("storage namespace is empty")
	}

	if cfg.Storage.SchemaVersion < 1 {
		return fmt.Errorf("schema version must be positive, got %d", cfg.Storage.SchemaVersion)
	}

	return nil
}

func (cfg *Database) GetDSN() string {
	dsn := mysql.NewConfig()
	dsn.User = cfg.UsernameDB
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	dsn.DBName = cfg.DBName
	dsn.ParseTime = true

	return dsn.FormatDSN()
}
