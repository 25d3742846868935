package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/wanttogo/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-b string   store backend: mongo, postgres or bolt
//	-m string   MongoDB URI
//	-d string   PostgreSQL DSN
//	-f string   bolt account store file
//	-s string   session cookie secret
//	-t int      session lifetime, minutes
//	-w int      store round-trip timeout, seconds
//	-l string   log level
//
// Only these flags are looked at, so -c / -config and flags of other
// components can share the command line.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-b", "-m", "-d", "-f", "-s", "-t", "-w", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.StoreBackend, "b", config.StoreBackend, "store backend (mongo, postgres, bolt)")
	fs.StringVar(&config.MongoURI, "m", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.BoltPath, "f", config.BoltPath, "bolt account store file")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session lifetime (in minutes)")
	storeTimeout := fs.Int("w", int(config.StoreTimeout.Seconds()), "store timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
	config.StoreTimeout = time.Duration(*storeTimeout) * time.Second

	return nil
}
