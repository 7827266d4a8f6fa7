package cli

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/sherlocksearch/holmes/pkg/config"
	"github.com/sherlocksearch/holmes/pkg/scheduler"
	"github.com/sherlocksearch/holmes/pkg/statusd"
)

func (c *CLI) gatherCommand() *cobra.Command {
	var configPath string
	var seeds []string
	var statusAddr string

	cmd := &cobra.Command{
		Use:   "gather",
		Short: "run the crawl scheduler against a set of seed URLs",
		Long:  `gather enqueues the given seed URLs into the politeness scheduler and runs until the queue drains, logging each fetch outcome per §7.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := loadOrDefault(configPath)
			if err != nil {
				return err
			}

			sched := scheduler.New(cfg.Gatherer.MaxRetries)
			for _, seed := range seeds {
				key, rest, err := splitSeedURL(seed)
				if err != nil {
					logger.Warnf("skipping invalid seed %q: %v", seed, err)
					continue
				}
				sched.Enqueue(key, rest, 0)
			}
			logger.Infof("enqueued %d seed(s), %d host(s) active", len(seeds), sched.Len())

			if statusAddr != "" {
				srv := statusd.New(sched)
				logger.Infof("status server listening on %s", statusAddr)
				go func() {
					if err := http.ListenAndServe(statusAddr, srv.Handler()); err != nil {
						logger.Errorf("status server stopped: %v", err)
					}
				}()
			}

			spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("gathering %d host(s)", sched.Len()))
			spinner.Start()
			if err := runGatherLoop(cmd.Context(), sched, logger); err != nil {
				spinner.StopWithError(err.Error())
				return err
			}
			spinner.StopWithSuccess("gather queue drained")
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file (defaults applied for anything unset)")
	cmd.Flags().StringSliceVar(&seeds, "seed", nil, "seed URL to enqueue (repeatable)")
	cmd.Flags().StringVar(&statusAddr, "status-addr", "", "address for the go-chi status server, e.g. :8080 (disabled if empty)")

	cmd.AddCommand(c.gatherWatchCommand())
	return cmd
}

func (c *CLI) gatherWatchCommand() *cobra.Command {
	var configPath string
	var seeds []string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "run the crawl scheduler behind a live TUI dashboard",
		Long:  `watch is identical to "gather" but renders per-host state and queue depth in a bubbletea dashboard instead of plain log lines.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadOrDefault(configPath)
			if err != nil {
				return err
			}
			sched := scheduler.New(cfg.Gatherer.MaxRetries)
			for _, seed := range seeds {
				key, rest, err := splitSeedURL(seed)
				if err != nil {
					continue
				}
				sched.Enqueue(key, rest, 0)
			}
			return runWatchTUI(sched)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	cmd.Flags().StringSliceVar(&seeds, "seed", nil, "seed URL to enqueue (repeatable)")
	return cmd
}

func loadOrDefault(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// splitSeedURL parses a seed URL into the scheduler's (protocol,
// hostname, port)-keyed [scheduler.HostKey] plus the path+query the
// scheduler stores per queued item (spec §3/§4.1).
func splitSeedURL(raw string) (scheduler.HostKey, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return scheduler.HostKey{}, "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return scheduler.HostKey{}, "", fmt.Errorf("not an absolute URL: %q", raw)
	}
	port := 80
	if u.Scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		fmt.Sscanf(p, "%d", &port)
	}
	rest := u.Path
	if u.RawQuery != "" {
		rest += "?" + u.RawQuery
	}
	if rest == "" {
		rest = "/"
	}
	return scheduler.HostKey{Protocol: u.Scheme, Hostname: u.Hostname(), Port: port}, rest, nil
}
