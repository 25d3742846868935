package config

import (
	"fmt"
	"os"
	"time"

	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/dmitrijs2005/wanttogo/internal/flagx"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk YAML layout. Durations accept Go duration strings
// such as "5s" or "24h".
type fileConfig struct {
	ListenAddr           string            `yaml:"listen_addr"`
	PortFallbackAttempts int               `yaml:"port_fallback_attempts"`
	StoreBackend         string            `yaml:"store_backend"`
	MongoURI             string            `yaml:"mongo_uri"`
	MongoDatabase        string            `yaml:"mongo_database"`
	MongoCollection      string            `yaml:"mongo_collection"`
	DatabaseDSN          string            `yaml:"database_dsn"`
	BoltPath             string            `yaml:"bolt_path"`
	StoreTimeout         timeutil.Duration `yaml:"store_timeout"`
	SessionSecret        string            `yaml:"session_secret"`
	SessionTTL           timeutil.Duration `yaml:"session_ttl"`
	SessionStore         string            `yaml:"session_store"`
	SessionDBPath        string            `yaml:"session_db_path"`
	SessionCapacity      int               `yaml:"session_capacity"`
	CookieSecure         bool              `yaml:"cookie_secure"`
	LogLevel             string            `yaml:"log_level"`
}

// parseFile overlays cfg with the YAML file named by -c / -config, if any.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	return ReadFile(path, cfg)
}

// ReadFile overlays cfg with the values present in the YAML file at path.
// Keys missing from the file keep their current values.
func ReadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	fc := fromConfig(cfg)
	if err = yaml.Unmarshal(data, fc); err != nil {
		return fmt.Errorf("parsing config file %q: %w", path, err)
	}

	fc.apply(cfg)

	return nil
}

func fromConfig(c *Config) *fileConfig {
	return &fileConfig{
		ListenAddr:           c.ListenAddr,
		PortFallbackAttempts: c.PortFallbackAttempts,
		StoreBackend:         c.StoreBackend,
		MongoURI:             c.MongoURI,
		MongoDatabase:        c.MongoDatabase,
		MongoCollection:      c.MongoCollection,
		DatabaseDSN:          c.DatabaseDSN,
		BoltPath:             c.BoltPath,
		StoreTimeout:         timeutil.Duration(c.StoreTimeout),
		SessionSecret:        c.SessionSecret,
		SessionTTL:           timeutil.Duration(c.SessionTTL),
		SessionStore:         c.SessionStore,
		SessionDBPath:        c.SessionDBPath,
		SessionCapacity:      c.SessionCapacity,
		CookieSecure:         c.CookieSecure,
		LogLevel:             c.LogLevel,
	}
}

func (fc *fileConfig) apply(c *Config) {
	c.ListenAddr = fc.ListenAddr
	c.PortFallbackAttempts = fc.PortFallbackAttempts
	c.StoreBackend = fc.StoreBackend
	c.MongoURI = fc.MongoURI
	c.MongoDatabase = fc.MongoDatabase
	c.MongoCollection = fc.MongoCollection
	c.DatabaseDSN = fc.DatabaseDSN
	c.BoltPath = fc.BoltPath
	c.StoreTimeout = time.Duration(fc.StoreTimeout)
	c.SessionSecret = fc.SessionSecret
	c.SessionTTL = time.Duration(fc.SessionTTL)
	c.SessionStore = fc.SessionStore
	c.SessionDBPath = fc.SessionDBPath
	c.SessionCapacity = fc.SessionCapacity
	c.CookieSecure = fc.CookieSecure
	c.LogLevel = fc.LogLevel
}
