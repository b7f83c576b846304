package config

import (
	"flag"
	"os"

	"relay/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the directory service
//	-d string   path to the local keystore database
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DirectoryAddr, "a", cfg.DirectoryAddr, "base URL of the directory service")
	fs.StringVar(&cfg.KeystorePath, "d", cfg.KeystorePath, "path to the local keystore database")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
