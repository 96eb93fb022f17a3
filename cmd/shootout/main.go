package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"shootout/internal/config"
	"shootout/internal/kismet"
	"shootout/internal/metrics"
	"shootout/internal/registry"
	"shootout/internal/shootout"
)

const usage = `shootout - Kismet 802.11 datasource shootout

Polls a Kismet server once per interval and compares the packet-capture
throughput of the named data sources.

Usage:
  shootout [flags] -c <channel> <source> [<source>...]

Flags:
`

func main() {
	fs := flag.NewFlagSet("shootout", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	channel := fs.Int("c", 0, "the channel to monitor (required)")
	user := fs.String("u", "", "a user name to log into Kismet with")
	askPassword := fs.Bool("p", false, "prompt for a password")
	configPath := fs.String("config", "", "path to YAML config")
	uri := fs.String("uri", "", "Kismet base URL (overrides config)")
	interval := fs.Duration("interval", 0, "poll interval (overrides config)")
	syncStart := fs.Bool("sync", false, "tune sources and capture a baseline before collecting")
	metricsPath := fs.String("o", "", "append per-iteration samples to a CSV file")
	_ = fs.Parse(os.Args[1:])

	names := fs.Args()
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "at least one data source is required")
		fs.Usage()
		os.Exit(2)
	}
	if *channel <= 0 {
		fmt.Fprintln(os.Stderr, "-c <channel> is required")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	overrideConfig(&cfg, *uri, *interval, *syncStart, *metricsPath)
	config.ApplyDefaults(&cfg)
	if err := config.Validate(cfg); err != nil {
		fatal(err)
	}

	password := ""
	if *askPassword {
		password, err = promptPassword()
		if err != nil {
			fatal(err)
		}
	}

	reg := registry.New()
	for _, name := range names {
		rec := reg.Register(name)
		rec.Channel = *channel
	}
	if reg.Len() < 2 {
		fmt.Fprintln(os.Stdout, "A shootout with only one data source is uninteresting, but whatever...")
	}

	client := kismet.NewClient(cfg.BaseURL)
	client.SetLogin(*user, password)

	ctx, cancel := signalContext()
	defer cancel()

	valid, err := client.CheckSession(ctx)
	if err != nil {
		fatal(err)
	}
	if !valid {
		fmt.Fprintln(os.Stdout, "Invalid login")
		os.Exit(1)
	}

	snapshot, err := client.Datasources(ctx)
	if err != nil {
		fatal(err)
	}
	if err := reg.ResolveIDs(snapshot); err != nil {
		var unknown *registry.UnknownSourceError
		if errors.As(err, &unknown) {
			// Historical behavior: an unknown source is an informational
			// exit, not a failure.
			fmt.Fprintln(os.Stdout, unknown.Error())
			os.Exit(0)
		}
		fatal(err)
	}

	runner := &shootout.Runner{
		Client:      client,
		Registry:    reg,
		Channel:     *channel,
		SyncOnStart: cfg.SyncOnStart,
		Interval:    cfg.PollInterval,
		Out:         os.Stdout,
		MetricsPath: cfg.MetricsPath,
	}
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}

	if cfg.MetricsPath != "" {
		printSummary(cfg.MetricsPath)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}
	return config.Load(path)
}

func overrideConfig(cfg *config.Config, uri string, interval time.Duration, syncStart bool, metricsPath string) {
	if uri != "" {
		cfg.BaseURL = uri
	}
	if interval > 0 {
		cfg.PollInterval = interval
	}
	if syncStart {
		cfg.SyncOnStart = true
	}
	if metricsPath != "" {
		cfg.MetricsPath = metricsPath
	}
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func printSummary(path string) {
	samples, err := metrics.ReadCSV(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to read samples: %v\n", err)
		return
	}
	if len(samples) == 0 {
		return
	}

	fmt.Fprintf(os.Stdout, "%-12s  %8s  %12s  %12s  %8s\n",
		"SOURCE", "SAMPLES", "FINAL", "PKTS/SEC", "PEAK")
	for _, s := range metrics.Summarize(samples) {
		fmt.Fprintf(os.Stdout, "%-12s  %8d  %12d  %12.1f  %7.2f%%\n",
			s.Source, s.Samples, s.FinalCount, s.MeanRate, s.PeakFraction*100)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()
	return ctx, cancel
}

func fatal(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
