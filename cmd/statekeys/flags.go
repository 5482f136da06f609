package main

import (
	"flag"
	"fmt"
	"os"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	DescriptorPath string
	LogLevel       string
	LogFormat      string
	ShowVersion    bool
	ShowHelp       bool
	Args           []string
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.DescriptorPath, "descriptors",
		getEnv("STATEKEYS_DESCRIPTORS", ""),
		"Path to YAML descriptor file (env: STATEKEYS_DESCRIPTORS)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("STATEKEYS_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: STATEKEYS_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("STATEKEYS_LOG_FORMAT", "text"),
		"Log format: json, text (env: STATEKEYS_LOG_FORMAT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	flag.Usage = printDetailedHelp

	flag.Parse()
	cfg.Args = flag.Args()

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func printDetailedHelp() {
	fmt.Fprintf(os.Stderr, `%s - entity state key tool

Usage:
  %s [flags] encode <kind> [prop=value ...]
  %s [flags] decode <kind> <key>
  %s [flags] kind <key>
  %s [flags] list

Flags:
`, appName, appName, appName, appName, appName)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  %s -descriptors kinds.yaml encode myService a=12
  %s -descriptors kinds.yaml decode myService my-service:12::
  %s kind my-service:12::
`, appName, appName, appName)
}
