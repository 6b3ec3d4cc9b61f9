package cmd

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rohmanhakim/crawl-gate/internal/compliance"
)

var checkWait bool

// checkConcurrency caps concurrent gate lookups; per-domain locking inside
// the gate already serializes same-domain work.
const checkConcurrency = 8

var checkCmd = &cobra.Command{
	Use:   "check [url]...",
	Short: "Ask the compliance gate whether each URL may be fetched.",
	Long: `check derives each URL's domain, fetches and caches that domain's
robots.txt policy, and prints an allow/deny verdict per URL. With --wait,
allowed URLs additionally wait out the domain's crawl delay, the same way
a fetch pipeline would immediately before requesting the page.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := InitConfig()

		sink, err := newSink(cfg)
		if err != nil {
			return fmt.Errorf("initializing log backend: %w", err)
		}

		gate := compliance.NewGate(sink, compliance.Options{
			UserAgent:         cfg.UserAgent(),
			CacheSize:         cfg.CacheSize(),
			CacheTTL:          cfg.CacheTTL(),
			DefaultCrawlDelay: cfg.DefaultCrawlDelay(),
		})
		defer gate.Close()

		type verdict struct {
			index   int
			url     string
			allowed bool
		}

		var mu sync.Mutex
		verdicts := make([]verdict, 0, len(args))

		group, ctx := errgroup.WithContext(cmd.Context())
		group.SetLimit(checkConcurrency)

		for i, rawURL := range args {
			i, rawURL := i, rawURL
			group.Go(func() error {
				allowed := gate.CanFetch(ctx, rawURL)
				if allowed && checkWait {
					if err := gate.WaitIfNeeded(ctx, rawURL); err != nil {
						return err
					}
				}
				mu.Lock()
				verdicts = append(verdicts, verdict{index: i, url: rawURL, allowed: allowed})
				mu.Unlock()
				return nil
			})
		}

		if err := group.Wait(); err != nil {
			return err
		}

		sort.Slice(verdicts, func(a, b int) bool { return verdicts[a].index < verdicts[b].index })

		denied := 0
		for _, v := range verdicts {
			status := "allow"
			if !v.allowed {
				status = "deny"
				denied++
			}
			fmt.Fprintf(os.Stdout, "%s\t%s\n", status, v.url)
		}

		if denied > 0 {
			fmt.Fprintf(os.Stderr, "%d of %d URLs denied by robots.txt\n", denied, len(verdicts))
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkWait, "wait", false, "also enforce the domain's crawl delay for allowed URLs")
	rootCmd.AddCommand(checkCmd)
}
