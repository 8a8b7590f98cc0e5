package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/safescan/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   comma separated backend base URLs, in resolution order
//	-i int      online check interval in seconds
//	-s string   storage scope: session or durable
//	-d string   database DSN of the durable store
//	-l string   log level
//
// Only these flags are kept from os.Args (see flagx.FilterArgs) so the config
// file flag and other consumers do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-s", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	var endpoints string
	fs.StringVar(&endpoints, "a", "", "comma separated backend base URLs")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.StorageScope, "s", cfg.StorageScope, "storage scope (session|durable)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if l := flagx.SplitList(endpoints); len(l) > 0 {
		cfg.Endpoints = l
	}
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
