package config

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Log      LogConfig
	Seed     SeedConfig
}

type AppConfig struct {
	Env           string        `env:"APP_ENV, default=local"`
	Port          string        `env:"APP_PORT, default=8080"`
	GRPCPort      string        `env:"GRPC_PORT, default=9090"`
	BodyLimit     int64         `env:"BODY_LIMIT, default=1048576"`
	RateLimit     int           `env:"RATE_LIMIT, default=120"`
	CORSOrigins   []string      `env:"CORS_ORIGINS, default=*"`
	ReportTimeout time.Duration `env:"REPORT_TIMEOUT, default=25s"`
	BulkWorkers   int           `env:"BULK_WORKERS, default=8"`
}

// Production reports whether the app runs with production settings.
func (a AppConfig) Production() bool {
	switch strings.ToLower(a.Env) {
	case "production", "prod":
		return true
	}
	return false
}

type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER, default=sqlite"`
	DSN             string        `env:"DATABASE_DSN"`
	Host            string        `env:"DB_HOST, default=127.0.0.1"`
	Port            string        `env:"DB_PORT, default=3306"`
	Name            string        `env:"DB_NAME, default=PROJECT_MANAGEMENT"`
	User            string        `env:"DB_USER"`
	Password        string        `env:"DB_PASS"`
	SQLitePath      string        `env:"DB_SQLITE_PATH, default=projectdesk.db"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS, default=25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS, default=10"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=5m"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME, default=2m"`
}

// DataSource returns DATABASE_DSN when set. Otherwise a MySQL DSN is built
// from the DB_* settings, or the SQLite file path is used.
func (d DatabaseConfig) DataSource() string {
	if d.DSN != "" {
		return d.DSN
	}
	if d.Driver != "mysql" {
		return d.SQLitePath
	}

	c := mysqldriver.NewConfig()
	c.User = d.User
	c.Passwd = d.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(d.Host, d.Port)
	c.DBName = d.Name
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB, default=0"`
	TTL      time.Duration `env:"CACHE_TTL, default=5m"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL, default=24h"`
	Issuer string        `env:"JWT_ISSUER, default=projectdesk"`
}

type StorageConfig struct {
	Disk           string `env:"STORAGE_DISK, default=local"`
	LocalRoot      string `env:"STORAGE_LOCAL_ROOT, default=storage"`
	URL            string `env:"STORAGE_URL, default=http://localhost:8080/storage"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION, default=us-east-1"`
	S3Key          string `env:"S3_KEY"`
	S3Secret       string `env:"S3_SECRET"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3URL          string `env:"S3_URL"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES, default=20971520"`
}

type LogConfig struct {
	Level           string `env:"LOG_LEVEL"`
	MongoURI        string `env:"LOG_MONGO_URI"`
	MongoDB         string `env:"LOG_MONGO_DB, default=projectdesk"`
	MongoCollection string `env:"LOG_MONGO_COLLECTION, default=logs"`
}

type SeedConfig struct {
	AdminName     string `env:"SEED_ADMIN_NAME, default=Administrator"`
	AdminEmail    string `env:"SEED_ADMIN_EMAIL, default=admin@projectdesk.local"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

var (
	loadOnce sync.Once
	loadErr  error

	mu      sync.RWMutex
	values  = map[string]string{}
	current *Config
)

// Load reads config/app.json and .env once. Process environment variables
// take precedence over both files.
func Load() error {
	loadOnce.Do(func() {
		loadErr = load("config/app.json", ".env")
	})
	return loadErr
}

// Current returns the loaded configuration.
func Current() *Config {
	_ = Load()

	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Parse decodes a Config from l. JWT_SECRET is mandatory in production;
// elsewhere a random per-process secret is generated when it is missing.
func Parse(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.Database.Driver = strings.ToLower(cfg.Database.Driver)
	switch cfg.Database.Driver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q (supported: sqlite, mysql)", cfg.Database.Driver)
	}

	if cfg.JWT.Secret == "" {
		if cfg.App.Production() {
			return nil, errors.New("config: JWT_SECRET is required in production")
		}
		cfg.JWT.Secret = randomSecret()
	}

	return &cfg, nil
}

func load(configPath, envPath string) error {
	fileValues := map[string]string{}

	var errs []error
	if err := mergeJSONConfig(configPath, fileValues); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	if err := mergeDotEnv(envPath, fileValues); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}

	lookuper := envconfig.MultiLookuper(envconfig.OsLookuper(), envconfig.MapLookuper(fileValues))
	cfg, err := Parse(context.Background(), lookuper)
	if err != nil {
		errs = append(errs, err)
		cfg, _ = Parse(context.Background(), envconfig.MapLookuper(map[string]string{}))
	}

	mu.Lock()
	values = fileValues
	current = cfg
	mu.Unlock()

	return errors.Join(errs...)
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		switch v := val.(type) {
		case string:
			out[k] = strings.TrimSpace(v)
		case float64, bool:
			out[k] = fmt.Sprint(v)
		}
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("config: generate secret: %v", err))
	}
	return hex.EncodeToString(b)
}

// Get reads any config key by name with an optional fallback. The process
// environment wins over .env and app.json.
func Get(key, fallback string) string {
	_ = Load()

	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}

	mu.RLock()
	defer mu.RUnlock()
	if v := strings.TrimSpace(values[key]); v != "" {
		return v
	}
	return fallback
}
