package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/mtsearch/internal/config"
	"github.com/standardbeagle/mtsearch/internal/debug"
	"github.com/standardbeagle/mtsearch/internal/dispatcher"
	"github.com/standardbeagle/mtsearch/internal/httpadapter"
	"github.com/standardbeagle/mtsearch/internal/index"
	"github.com/standardbeagle/mtsearch/internal/version"
	"github.com/standardbeagle/mtsearch/internal/workerpool"
)

func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		root = cwd
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg.Apply(config.Overrides{
		Root:      root,
		Workers:   c.Int("workers"),
		NgramSize: c.Int("ngram-size"),
		ResultCap: c.Int("result-cap"),
		Snapshot:  c.String("snapshot"),
	})
	if len(c.StringSlice("include")) > 0 {
		cfg.Include = c.StringSlice("include")
	}
	if len(c.StringSlice("exclude")) > 0 {
		cfg.Exclude = append(cfg.Exclude, c.StringSlice("exclude")...)
	}
	return cfg, nil
}

func buildDispatcher(cfg *config.Config) (*dispatcher.Dispatcher, *workerpool.Pool) {
	idx := index.New(cfg.Index.NgramSize, index.WithMaxResults(cfg.Search.ResultCap))
	pool := workerpool.New(cfg.ResolvedWorkers())
	return dispatcher.New(cfg, idx, pool), pool
}

func main() {
	app := &cli.App{
		Name:    "mtsearch",
		Usage:   "multi-threaded in-memory full-text search core",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "directory .mtsearch.kdl is loaded from (default: working directory)"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "worker pool size (0 = hardware concurrency)"},
			&cli.IntFlag{Name: "ngram-size", Usage: "n-gram length for substring search"},
			&cli.IntFlag{Name: "result-cap", Usage: "maximum results returned by find/find_substring"},
			&cli.StringFlag{Name: "snapshot", Usage: "path to a TOML snapshot file restored at startup and saved at shutdown"},
			&cli.StringSliceFlag{Name: "include", Usage: "restrict ingestion to files matching these globs"},
			&cli.StringSliceFlag{Name: "exclude", Usage: "skip files matching these globs, in addition to the defaults"},
			&cli.BoolFlag{Name: "debug", Usage: "enable verbose debug logging to stderr"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				debug.EnableDebug = "true"
			}
			if debug.Enabled() {
				debug.SetOutput(os.Stderr)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the boundary-only TCP adapter instead of the interactive REPL",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: "127.0.0.1:4115", Usage: "address to listen on"},
				},
				Action: func(c *cli.Context) error {
					cfg, err := loadConfigWithOverrides(c)
					if err != nil {
						return err
					}
					d, pool := buildDispatcher(cfg)
					defer pool.Close()

					if err := d.RestoreSnapshot(); err != nil {
						debug.LogDispatch("snapshot restore failed: %v", err)
					}

					adapter := httpadapter.New(d)
					sig := make(chan os.Signal, 1)
					signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
					go func() {
						<-sig
						adapter.Shutdown()
					}()

					fmt.Fprintf(c.App.Writer, "listening on %s\n", c.String("addr"))
					if err := adapter.Serve(c.String("addr")); err != nil {
						return err
					}
					_ = d.SaveSnapshot()
					return d.Close()
				},
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			d, pool := buildDispatcher(cfg)
			defer pool.Close()

			if err := d.RestoreSnapshot(); err != nil {
				debug.LogDispatch("snapshot restore failed: %v", err)
			}

			runErr := d.Run(os.Stdin, os.Stdout)

			if err := d.SaveSnapshot(); err != nil {
				debug.LogDispatch("snapshot save failed: %v", err)
			}
			if err := d.Close(); err != nil {
				debug.LogDispatch("shutdown: %v", err)
			}
			return runErr
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "mtsearch: %v\n", err)
		os.Exit(1)
	}
}
