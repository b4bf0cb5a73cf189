package flatdb

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// Storage drivers.
const (
	driverJSONFile = "jsonfile"
	driverSQLite   = "sqlite"
	driverRedis    = "redis"
	driverMemory   = "memory"
)

type clientConfig struct {
	driver    string
	dataDir   string
	path      string
	addrs     []string
	password  string
	keyPrefix string

	collection string
	pageSize   int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithDataDir stores each collection as <dir>/<collection>.json.
func WithDataDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverJSONFile
		c.dataDir = dir
	})
}

// WithSQLite stores collections as rows of a SQLite database file.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverSQLite
		c.path = path
	})
}

// WithRedis stores each collection as one string key on a Redis or Valkey server.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix sets the Redis key namespace. Default: "flatdb:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithMemory keeps collections in process memory. Data is lost on Close.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
	})
}

// WithCollection sets the collection behind Users(). Default: "users".
func WithCollection(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.collection = name
	})
}

// WithPageSize sets the page size Users().Paginate uses when limit is 0.
// Default: 10.
func WithPageSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = size
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
