package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/crawl-gate/internal/sitemap"
)

var discoverCmd = &cobra.Command{
	Use:   "discover [sitemap-url]",
	Short: "List the crawlable URLs declared by an XML sitemap.",
	Long: `discover fetches the sitemap, extracts every <loc> entry regardless of
XML namespace, composes relative locations against the sitemap's own URL,
and prints one absolute URL per line in document order. A sitemap that
cannot be fetched or parsed yields no URLs rather than an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := InitConfig()

		sink, err := newSink(cfg)
		if err != nil {
			return fmt.Errorf("initializing log backend: %w", err)
		}

		resolver := sitemap.NewResolver(sink)

		urls, err := resolver.Resolve(cmd.Context(), args[0])
		if err != nil {
			// Only cancellation reaches here
			return err
		}

		for _, u := range urls {
			fmt.Fprintln(os.Stdout, u)
		}
		fmt.Fprintf(os.Stderr, "discovered %d URLs from %s\n", len(urls), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
