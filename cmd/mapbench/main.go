// Command mapbench compares the sharded RWMutex map against a lock-free map
// under a fixed writers/readers workload.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"shardbench"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "mapbench",
		Usage: "compare concurrent map strategies under a fixed workload",
		Commands: []*cli.Command{
			runCommand(),
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run the workload against every configured strategy",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", EnvVars: []string{"SHARDBENCH_CONFIG"}},
			&cli.StringSliceFlag{Name: "strategy", Aliases: []string{"s"}, Usage: "strategy to run: sharded, lockfree (repeatable)"},
			&cli.IntFlag{Name: "shards", Usage: "shard count"},
			&cli.IntFlag{Name: "writers", Usage: "writer goroutines"},
			&cli.IntFlag{Name: "writes", Usage: "inserts per writer"},
			&cli.IntFlag{Name: "readers", Usage: "reader goroutines"},
			&cli.IntFlag{Name: "reads", Usage: "gets per reader"},
			&cli.IntFlag{Name: "rounds", Usage: "rounds per strategy"},
			&cli.StringFlag{Name: "prefix", Usage: "key prefix"},
			&cli.StringFlag{Name: "hash", Usage: "shard routing hash: murmur3, xxh3"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn, error"},
			&cli.StringFlag{Name: "log-format", Usage: "text, json"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "table, yaml, json", Value: "table"},
			&cli.StringFlag{Name: "metrics-out", Usage: "write Prometheus metrics to this file"},
		},
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	cfg, err := shardbench.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	applyFlags(c, &cfg)

	logger := shardbench.NewLogger(cfg.Log, c.App.ErrWriter)
	reg := prometheus.NewRegistry()
	runner, err := shardbench.NewRunner(cfg, logger, shardbench.NewMetrics(reg))
	if err != nil {
		return err
	}

	logger.Info("starting",
		"strategies", cfg.Strategies,
		"shards", cfg.Shards,
		"writers", cfg.Writers,
		"readers", cfg.Readers,
	)
	summaries, err := runner.Compare(c.Context)
	if err != nil {
		return err
	}
	if path := c.String("metrics-out"); path != "" {
		if err := prometheus.WriteToTextfile(path, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return shardbench.WriteSummaries(c.App.Writer, c.String("output"), summaries)
}

func applyFlags(c *cli.Context, cfg *shardbench.Config) {
	ints := map[string]*int{
		"shards":  &cfg.Shards,
		"writers": &cfg.Writers,
		"writes":  &cfg.Writes,
		"readers": &cfg.Readers,
		"reads":   &cfg.Reads,
		"rounds":  &cfg.Rounds,
	}
	for name, dst := range ints {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}
	if c.IsSet("prefix") {
		cfg.Prefix = c.String("prefix")
	}
	if c.IsSet("hash") {
		cfg.Hash = c.String("hash")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	if c.IsSet("strategy") {
		cfg.Strategies = cfg.Strategies[:0:0]
		for _, s := range c.StringSlice("strategy") {
			cfg.Strategies = append(cfg.Strategies, shardbench.Strategy(s))
		}
	}
}
