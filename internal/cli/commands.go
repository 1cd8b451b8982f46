// internal/cli/commands.go
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/solidwrite/pseo/internal/auth"
	"github.com/solidwrite/pseo/internal/config"
	"github.com/solidwrite/pseo/internal/errors"
	"github.com/solidwrite/pseo/internal/models"
	"github.com/solidwrite/pseo/internal/storage"
	"github.com/spf13/cobra"
)

// RunRoutes lists the manifest in emission order.
func RunRoutes(cmd *cobra.Command, args []string) error {
	playbook, err := OptionalStringFlag(cmd, "playbook")
	if err != nil {
		return err
	}
	asJSON, err := optionalBoolFlag(cmd, "json")
	if err != nil {
		return err
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	routes, err := e.pages.RoutesByPlaybook(models.Playbook(playbook))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, routes)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, route := range routes {
		fmt.Fprintf(tw, "/%s\t%s\t%s\n", route.Slug, route.Playbook, route.Title)
	}
	return tw.Flush()
}

// RunPage prints one generated page. A thin page prints its SKIPPED form
// and fails. With --sqlite the page is read from an exported catalog.
func RunPage(cmd *cobra.Command, args []string) error {
	dbPath, err := OptionalStringFlag(cmd, "sqlite")
	if err != nil {
		return err
	}
	if dbPath != "" {
		return printStoredPage(cmd, dbPath, args[0])
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	page, err := e.pages.GeneratePageBySlug(args[0])
	if errors.IsThinContentError(err) {
		if werr := writeJSON(cmd.OutOrStdout(), models.NewSkippedPage(errors.SkipReason(err))); werr != nil {
			return werr
		}
		return fmt.Errorf("page %s skipped", args[0])
	}
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), page)
}

func printStoredPage(cmd *cobra.Command, dbPath, slug string) error {
	store, err := openExistingCatalog(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	page, err := store.LoadPage(cmd.Context(), strings.TrimPrefix(slug, "/"))
	if err != nil {
		return fmt.Errorf("page %s: %w", slug, err)
	}
	return writeJSON(cmd.OutOrStdout(), page)
}

// openExistingCatalog opens a catalog database without creating one.
func openExistingCatalog(path string) (*storage.CatalogStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return storage.OpenCatalog(path)
}

// RunBatch prints one window of generated pages.
func RunBatch(cmd *cobra.Command, args []string) error {
	offset, err := cmd.Flags().GetInt("offset")
	if err != nil {
		return fmt.Errorf("failed to read --offset flag: %w", err)
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("failed to read --limit flag: %w", err)
	}

	e, err := loadEnv(cmd, func(cmd *cobra.Command, cfg *config.Config) error {
		global, err := optionalBoolFlag(cmd, "global-dedup")
		if global {
			cfg.GlobalKeywordDedup = true
		}
		return err
	})
	if err != nil {
		return err
	}
	defer e.Close()

	result, err := e.batch.GenerateBatch(cmd.Context(), offset, limit)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

// RunSitemap renders sitemap.xml to stdout or a file.
func RunSitemap(cmd *cobra.Command, args []string) error {
	output, err := OptionalStringFlag(cmd, "output")
	if err != nil {
		return err
	}

	e, err := loadEnv(cmd, func(cmd *cobra.Command, cfg *config.Config) error {
		exclude, err := optionalBoolFlag(cmd, "exclude-skipped")
		if exclude {
			cfg.SitemapExcludeSkipped = true
		}
		return err
	})
	if err != nil {
		return err
	}
	defer e.Close()

	body, err := e.sitemap.RenderXML()
	if err != nil {
		return err
	}

	if output == "" {
		_, err = cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(output), err)
	}
	if err := os.WriteFile(output, body, 0644); err != nil {
		return fmt.Errorf("failed to write sitemap: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
	return nil
}

// RunExport pre-renders every admissible page.
func RunExport(cmd *cobra.Command, args []string) error {
	out, err := OptionalStringFlag(cmd, "out")
	if err != nil {
		return err
	}
	sqlitePath, err := OptionalStringFlag(cmd, "sqlite")
	if err != nil {
		return err
	}
	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return fmt.Errorf("failed to read --concurrency flag: %w", err)
	}
	asJSON, err := optionalBoolFlag(cmd, "json")
	if err != nil {
		return err
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	result, err := e.export.Export(cmd.Context(), models.ExportOptions{
		OutputDir:   out,
		SQLitePath:  sqlitePath,
		Concurrency: concurrency,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(w, result)
	}
	fmt.Fprintf(w, "exported %d of %d pages to %s (fingerprint %s)\n", result.Written, result.TotalRoutes, result.OutputDir, result.Fingerprint)
	for _, skipped := range result.Skipped {
		fmt.Fprintf(w, "  skipped /%s: %s\n", skipped.Slug, skipped.Reason)
	}
	for _, slug := range result.Unknown {
		fmt.Fprintf(w, "  no generator for /%s\n", slug)
	}
	if result.SQLitePath != "" {
		fmt.Fprintf(w, "catalog database: %s\n", result.SQLitePath)
	}
	return nil
}

// RunCheck audits the whole manifest. It fails on duplicate slugs and
// unknown playbooks, and with --strict also on thin pages and keyword
// collisions.
func RunCheck(cmd *cobra.Command, args []string) error {
	strict, err := optionalBoolFlag(cmd, "strict")
	if err != nil {
		return err
	}
	asJSON, err := optionalBoolFlag(cmd, "json")
	if err != nil {
		return err
	}
	dbPath, err := OptionalStringFlag(cmd, "sqlite")
	if err != nil {
		return err
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	catalog, err := e.manifests.Current()
	if err != nil {
		return err
	}
	report := catalog.Audit()

	if dbPath != "" {
		store, err := openExistingCatalog(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if report.Stored, err = catalog.AuditStore(cmd.Context(), store); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if asJSON {
		if err := writeJSON(w, report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "routes: %d, admissible: %d, fingerprint: %s\n", report.TotalRoutes, report.Admissible, report.Fingerprint)
		for slug, playbooks := range report.DuplicateSlugs {
			fmt.Fprintf(w, "duplicate slug /%s from %v\n", slug, playbooks)
		}
		for _, slug := range report.Unknown {
			fmt.Fprintf(w, "no generator for /%s\n", slug)
		}
		for _, skipped := range report.Skipped {
			fmt.Fprintf(w, "skipped /%s: %s\n", skipped.Slug, skipped.Reason)
		}
		for _, kw := range report.CollidingKeywords() {
			fmt.Fprintf(w, "keyword %q shared by %v\n", kw, report.KeywordCollisions[kw])
		}
		if stored := report.Stored; stored != nil {
			fmt.Fprintf(w, "catalog %s: published %d, skipped %d, fingerprint: %s\n",
				stored.Path, stored.Counts[storage.PageStatusPublished], stored.Counts[storage.PageStatusSkipped], stored.Fingerprint)
			if stored.Stale {
				fmt.Fprintf(w, "catalog %s is stale: manifest fingerprint is %s\n", stored.Path, report.Fingerprint)
			}
			for _, kw := range stored.CollidingKeywords() {
				fmt.Fprintf(w, "stored keyword %q shared by %v\n", kw, stored.KeywordCollisions[kw])
			}
		}
	}

	switch {
	case !report.Clean():
		return fmt.Errorf("catalog check failed: %d duplicate slugs, %d unknown playbooks", len(report.DuplicateSlugs), len(report.Unknown))
	case strict && (len(report.Skipped) > 0 || len(report.KeywordCollisions) > 0):
		return fmt.Errorf("catalog check failed: %d skipped pages, %d keyword collisions", len(report.Skipped), len(report.KeywordCollisions))
	case strict && report.Stored != nil && report.Stored.Stale:
		return fmt.Errorf("catalog check failed: %s was exported from another manifest", report.Stored.Path)
	}
	return nil
}

// RunToken prints a signed operator token. It needs no services, only the
// configured secret.
func RunToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	tokenConfig := auth.NewTokenConfig(cfg.AdminTokenSecret, cfg.AdminTokenTTL)
	if tokenConfig == nil {
		return fmt.Errorf("ADMIN_TOKEN_SECRET is not set")
	}

	subject, err := OptionalStringFlag(cmd, "subject")
	if err != nil {
		return err
	}
	scopes, err := cmd.Flags().GetStringSlice("scope")
	if err != nil {
		return fmt.Errorf("failed to read --scope flag: %w", err)
	}
	ttl, err := cmd.Flags().GetDuration("ttl")
	if err != nil {
		return fmt.Errorf("failed to read --ttl flag: %w", err)
	}
	if ttl > 0 {
		tokenConfig.Expiration = ttl
	}

	token, err := auth.GenerateToken(subject, scopes, tokenConfig)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
