// Package main implements the statekeys command-line tool: encode, decode
// and inspect entity state keys against a registered descriptor file.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/c360/statekit/registry"
	"github.com/c360/statekit/statekey"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "statekeys"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := parseFlags()

	if cfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return 0
	}
	if cfg.ShowHelp {
		printDetailedHelp()
		return 0
	}

	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.DescriptorPath != "" {
		if err := registry.LoadFile(cfg.DescriptorPath); err != nil {
			logger.Error("descriptor load failed", "path", cfg.DescriptorPath, "error", err)
			return 1
		}
		logger.Debug("descriptors loaded", "path", cfg.DescriptorPath, "kinds", registry.List())
	}

	args := cfg.Args
	if len(args) == 0 {
		printDetailedHelp()
		return 1
	}

	var err error
	switch args[0] {
	case "encode":
		err = runEncode(args[1:])
	case "decode":
		err = runDecode(args[1:])
	case "kind":
		err = runKind(args[1:])
	case "list":
		err = runList()
	default:
		err = fmt.Errorf("unknown command %q; expected encode, decode, kind or list", args[0])
	}
	if err != nil {
		if kind := statekey.KindOf(err); kind != 0 {
			logger.Error("codec fault", "kind", kind.String(), "error", err)
		} else {
			logger.Error("command failed", "error", err)
		}
		return 1
	}
	return 0
}

// runEncode builds a key: statekeys encode <kind> [prop=value ...]
func runEncode(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("encode: usage: encode <kind> [prop=value ...]")
	}
	d, ok := registry.Lookup(args[0])
	if !ok {
		return fmt.Errorf("encode: kind %q is not registered", args[0])
	}

	props := make(map[string]any, len(args)-1)
	for _, arg := range args[1:] {
		name, value, found := strings.Cut(arg, "=")
		if !found {
			return fmt.Errorf("encode: argument %q is not prop=value", arg)
		}
		props[name] = value
	}

	key, err := statekey.PropsToKey(d, props)
	if err != nil {
		return err
	}
	fmt.Println(key)
	return nil
}

// runDecode parses a key: statekeys decode <kind> <key>
func runDecode(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("decode: usage: decode <kind> <key>")
	}
	d, ok := registry.Lookup(args[0])
	if !ok {
		return fmt.Errorf("decode: kind %q is not registered", args[0])
	}

	props, err := statekey.KeyToProps(d, args[1])
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(props, "", "  ")
	if err != nil {
		return fmt.Errorf("decode: render result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// runKind extracts the kind reference: statekeys kind <key>
func runKind(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("kind: usage: kind <key>")
	}
	ref, err := statekey.KindToken(args[0])
	if err != nil {
		return err
	}
	fmt.Println(ref)
	return nil
}

// runList prints the registered kinds and their dash-names.
func runList() error {
	for _, kind := range registry.List() {
		d, _ := registry.Lookup(kind)
		fmt.Printf("%s\t%s\t%s\n", kind, d.DashName(), strings.Join(d.KeyProps, ","))
	}
	return nil
}

func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler).With(
		"service", appName,
		"version", Version,
	)
}
