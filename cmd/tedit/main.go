package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/xyproto/tedit"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.toml")
		tabStop    = flag.Int("tabstop", 0, "tab width, overrides the config file")
		logPath    = flag.String("log", "", "append diagnostics to this file")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tedit [flags] [filename]\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	if *configPath == "" {
		if path, err := tedit.DefaultConfigPath(); err == nil {
			*configPath = path
		}
	}
	cfg := tedit.DefaultConfig()
	var unknown []string
	if *configPath != "" {
		var err error
		cfg, unknown, err = tedit.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	}
	if *tabStop != 0 {
		cfg.TabStop = *tabStop
	}
	if *logPath != "" {
		cfg.LogFile = *logPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	logger := log.New(io.Discard, "tedit: ", log.LstdFlags)
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %s\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
		logger.SetOutput(logFile)
	}
	for _, key := range unknown {
		logger.Printf("unknown config key %q in %s", key, *configPath)
	}
	logger.Printf("starting with config:\n%s", cfg)

	tty, err := tedit.OpenTerminal(os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing editor: %s\n", err)
		os.Exit(1)
	}

	e := tedit.New(tty, cfg, logger)
	if filename := flag.Arg(0); filename != "" {
		if err := e.Open(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening file: %s\n", err)
			os.Exit(1)
		}
	}

	if err := e.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
