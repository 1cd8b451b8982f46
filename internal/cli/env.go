// internal/cli/env.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/solidwrite/pseo/internal/app"
	"github.com/solidwrite/pseo/internal/config"
	"github.com/solidwrite/pseo/internal/di"
	"github.com/solidwrite/pseo/internal/services"
	"github.com/solidwrite/pseo/internal/utils"
	"github.com/spf13/cobra"
)

// env is the service set one command runs against.
type env struct {
	cfg       *config.Config
	container *di.Container
	manifests *services.ManifestService
	pages     *services.PageService
	batch     *services.BatchService
	sitemap   *services.SitemapService
	export    *services.ExportService
}

// configure lets a command adjust the config before services are built.
type configure func(cmd *cobra.Command, cfg *config.Config) error

// loadEnv reads config from the environment, applies the persistent flags
// and any command overrides, then wires services the same way the server
// does. Logs go to stderr so stdout stays machine-readable.
func loadEnv(cmd *cobra.Command, overrides ...configure) (*env, error) {
	verbose, err := optionalBoolFlag(cmd, "verbose")
	if err != nil {
		return nil, err
	}
	logger := utils.GetLogger()
	logger.SetOutput(cmd.ErrOrStderr())
	if verbose {
		logger.SetLogLevel(utils.DEBUG)
	} else {
		logger.SetLogLevel(utils.WARNING)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if path, err := OptionalStringFlag(cmd, "dimensions"); err != nil {
		return nil, err
	} else if path != "" {
		cfg.DimensionsFile = path
	}
	if siteURL, err := OptionalStringFlag(cmd, "site-url"); err != nil {
		return nil, err
	} else if siteURL != "" {
		cfg.SiteURL = siteURL
	}
	if cmd.Flags().Lookup("seed") != nil {
		seed, err := cmd.Flags().GetInt64("seed")
		if err != nil {
			return nil, fmt.Errorf("failed to read --seed flag: %w", err)
		}
		if seed != 0 {
			cfg.LinkSeed = seed
		}
	}

	for _, override := range overrides {
		if err := override(cmd, cfg); err != nil {
			return nil, err
		}
	}

	container := di.NewContainer()
	if err := app.InitServicesWith(container, cfg); err != nil {
		return nil, err
	}

	return &env{
		cfg:       cfg,
		container: container,
		manifests: di.MustResolve[*services.ManifestService](container, di.ServiceManifest),
		pages:     di.MustResolve[*services.PageService](container, di.ServicePage),
		batch:     di.MustResolve[*services.BatchService](container, di.ServiceBatch),
		sitemap:   di.MustResolve[*services.SitemapService](container, di.ServiceSitemap),
		export:    di.MustResolve[*services.ExportService](container, di.ServiceExport),
	}, nil
}

// Close releases the services.
func (e *env) Close() {
	app.Shutdown(e.container)
}

// OptionalStringFlag returns a trimmed string flag, or "" when the command
// does not define it.
func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func optionalBoolFlag(cmd *cobra.Command, name string) (bool, error) {
	if cmd.Flags().Lookup(name) == nil {
		return false, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
