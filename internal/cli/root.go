// internal/cli/root.go
package cli

import (
	"fmt"

	"github.com/solidwrite/pseo/internal/auth"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the pseo command tree.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pseo",
		Short: "Generate and inspect the programmatic SEO page catalog",
		Long: `pseo expands the dimension config into the route manifest and
generates pages from it, the same way the HTTP server does.

Configuration comes from the environment (and an optional .env file);
flags override it.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("dimensions", "", "Dimension config YAML (default: embedded config)")
	rootCmd.PersistentFlags().Int64("seed", 0, "Internal link seed (0: LINK_SEED or clock)")
	rootCmd.PersistentFlags().String("site-url", "", "Site URL used for sitemap locations")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level to stderr")

	routesCmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route manifest",
		Args:  cobra.NoArgs,
		RunE:  RunRoutes,
	}
	routesCmd.Flags().String("playbook", "", "Only list routes of this playbook")
	routesCmd.Flags().Bool("json", false, "Print routes as JSON")

	pageCmd := &cobra.Command{
		Use:   "page <slug>",
		Short: "Generate one page and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  RunPage,
	}
	pageCmd.Flags().String("sqlite", "", "Read the page from an exported SQLite catalog instead of generating it")

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate a window of the manifest",
		Args:  cobra.NoArgs,
		RunE:  RunBatch,
	}
	batchCmd.Flags().Int("offset", 0, "First manifest position")
	batchCmd.Flags().Int("limit", 20, "Window size (max 100)")
	batchCmd.Flags().Bool("global-dedup", false, "Drop pages whose keyword is owned by an earlier route of the manifest")

	sitemapCmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Render sitemap.xml",
		Args:  cobra.NoArgs,
		RunE:  RunSitemap,
	}
	sitemapCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	sitemapCmd.Flags().Bool("exclude-skipped", false, "Leave out pages refused by the content-depth gate")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Pre-render every page to a directory",
		Args:  cobra.NoArgs,
		RunE:  RunExport,
	}
	exportCmd.Flags().String("out", "", "Output directory (default: EXPORT_DIR)")
	exportCmd.Flags().String("sqlite", "", "Also write the page catalog to this SQLite database")
	exportCmd.Flags().Int("concurrency", 0, "Parallel file writes (default 8)")
	exportCmd.Flags().Bool("json", false, "Print the export summary as JSON")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Audit the catalog for duplicate slugs, thin pages and keyword collisions",
		Args:  cobra.NoArgs,
		RunE:  RunCheck,
	}
	checkCmd.Flags().Bool("strict", false, "Also fail on skipped pages, keyword collisions and a stale exported catalog")
	checkCmd.Flags().String("sqlite", "", "Also audit an exported SQLite catalog")
	checkCmd.Flags().Bool("json", false, "Print the report as JSON")

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator token signed with ADMIN_TOKEN_SECRET",
		Args:  cobra.NoArgs,
		RunE:  RunToken,
	}
	tokenCmd.Flags().String("subject", "operator", "Token subject recorded in server logs")
	tokenCmd.Flags().StringSlice("scope", []string{auth.ScopeExport}, "Scopes granted by the token")
	tokenCmd.Flags().Duration("ttl", 0, "Token lifetime (default: ADMIN_TOKEN_TTL)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pseo %s\n", version)
		},
	}

	rootCmd.AddCommand(
		routesCmd,
		pageCmd,
		batchCmd,
		sitemapCmd,
		exportCmd,
		checkCmd,
		tokenCmd,
		versionCmd,
	)

	return rootCmd
}
