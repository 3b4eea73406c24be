package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cmbmwifi/cambium-nms-templates/pkg/fetch"
	"github.com/cmbmwifi/cambium-nms-templates/pkg/installer"
	"github.com/cmbmwifi/cambium-nms-templates/pkg/prompt"
	"github.com/cmbmwifi/cambium-nms-templates/pkg/requirements"
	"github.com/cmbmwifi/cambium-nms-templates/pkg/resolver"
	"github.com/cmbmwifi/cambium-nms-templates/pkg/telemetry"
	"github.com/cmbmwifi/cambium-nms-templates/pkg/zabbix"
)

// defaultBundleURL is the published bundle tarball. --local or
// --bundle-url replace it.
const defaultBundleURL = "https://github.com/cmbmwifi/cambium-nms-templates/archive/refs/heads/main.tar.gz"

func newInstallCommand() *cobra.Command {
	var (
		local          bool
		sourceDir      string
		bundleURL      string
		platform       string
		product        string
		scriptsDir     string
		apiOnly        bool
		validateConfig bool
		metricsListen  string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install a monitoring template bundle",
		Long: `Install a monitoring template bundle onto a Zabbix server.

The installer fetches the bundle (or uses a local checkout), collects the
inputs its requirements.yaml declares, connects to the Zabbix API, and
runs the reconciliation pipeline: optional flushes, template import,
collector script deployment, credential macro configuration, and optional
host creation.

When both ZABBIX_API_URL and ZABBIX_API_TOKEN are set the installer runs
non-interactively; every other input comes from its environment variable
or its declared default.`,
		Example: `  # Interactive install from the published bundle
  nms-install install

  # Non-interactive install from a local checkout
  ZABBIX_API_URL=https://zabbix.example.com ZABBIX_API_TOKEN=... \
    nms-install install --local --source-dir .

  # Reconcile the API only, no filesystem access on this machine
  nms-install install --api-only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			bundleDir, cleanup, err := resolveBundle(ctx, log, local, sourceDir, bundleURL, platform, product)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Println("Found requirements.yaml")
			fmt.Println("Parsing requirements...")
			reqs, err := requirements.NewLoader().Load(bundleDir)
			if err != nil {
				return err
			}
			fmt.Printf("Template: %s\n", reqs.Metadata.Name)
			if reqs.Metadata.Description != "" {
				fmt.Println(reqs.Metadata.Description)
			}
			if p := reqs.Compatibility.NMS.Platform; p != "" && p != platform {
				log.Warn().Str("bundle", p).Str("requested", platform).
					Msg("bundle targets a different platform")
			}
			if pkgs := reqs.Dependencies.SystemPackages; len(pkgs) > 0 {
				log.Info().Strs("packages", pkgs).
					Msg("collector needs these host packages at runtime")
			}

			overrides := resolver.NewEnvOverrides()
			var prompter resolver.Prompter
			if resolver.NonInteractive(overrides) {
				log.Info().Msg("API URL and token provided, running non-interactively")
			} else {
				prompter = prompt.New()
			}

			cfg, err := resolver.New(resolver.Options{
				Overrides: overrides,
				Prompter:  prompter,
				Logger:    log,
			}).Resolve(reqs.UserInputs)
			if err != nil {
				return err
			}
			fmt.Println("Configuration collected")

			if validateConfig {
				for _, name := range cfg.Names() {
					v, _ := cfg.Value(name)
					fmt.Printf("  %-20s %s\n", name, v.Display())
				}
				fmt.Println("Configuration is valid; no changes made.")
				return nil
			}

			metricsCfg := telemetry.DefaultMetricsConfig()
			if metricsListen != "" {
				metricsCfg.Enabled = true
				metricsCfg.ListenAddress = metricsListen
			}
			metrics := telemetry.NewMetrics(metricsCfg)
			metrics.Serve(log)
			defer metrics.Shutdown(context.Background())

			client, err := zabbix.Connect(ctx,
				cfg.String(resolver.InputAPIURL),
				cfg.String(resolver.InputAPIToken),
				zabbix.WithLogger(log),
				zabbix.WithObserver(metrics.ObserveCall),
			)
			if err != nil {
				return err
			}
			fmt.Printf("Connected to Zabbix %s\n", client.Version)

			summary, err := installer.New(installer.Options{
				API:           client,
				Config:        cfg,
				TemplateName:  reqs.Metadata.Name,
				ServerVersion: client.Version,
				BundleDir:     bundleDir,
				ScriptsDir:    scriptsDir,
				SkipDeploy:    apiOnly,
				Logger:        log,
				Observer:      metrics,
			}).Run(ctx)

			if summary != nil {
				printSummary(summary)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "use a local bundle checkout instead of downloading")
	cmd.Flags().StringVar(&sourceDir, "source-dir", ".", "local checkout root (with --local)")
	cmd.Flags().StringVar(&bundleURL, "bundle-url", defaultBundleURL, "bundle tarball URL")
	cmd.Flags().StringVar(&platform, "platform", "zabbix", "target NMS platform")
	cmd.Flags().StringVar(&product, "product", "cambium-fiber", "product bundle to install")
	cmd.Flags().StringVar(&scriptsDir, "scripts-dir", installer.DefaultScriptsDir, "Zabbix external scripts directory")
	cmd.Flags().BoolVar(&apiOnly, "api-only", false, "skip filesystem deployment, reconcile the API only")
	cmd.Flags().BoolVar(&validateConfig, "validate-config", false, "parse and resolve configuration, then exit without touching the server")
	cmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address (e.g. :9464)")

	return cmd
}

func newLogger() (zerolog.Logger, error) {
	cfg := telemetry.DefaultLoggingConfig()
	cfg.Format = logFormat
	if verbose {
		cfg.Level = "debug"
	}
	return telemetry.NewLogger(cfg)
}

// resolveBundle returns the bundle directory and a cleanup function for
// any transient download.
func resolveBundle(ctx context.Context, log zerolog.Logger, local bool, sourceDir, bundleURL, platform, product string) (string, func(), error) {
	noop := func() {}

	if local {
		dir, err := fetch.Locate(sourceDir, platform, product)
		if err != nil {
			return "", noop, err
		}
		return dir, noop, nil
	}

	tmp, err := os.MkdirTemp("", "nms-install-*")
	if err != nil {
		return "", noop, err
	}
	cleanup := func() { os.RemoveAll(tmp) }

	root, err := fetch.New(nil, log).Fetch(ctx, bundleURL, tmp)
	if err != nil {
		cleanup()
		return "", noop, err
	}
	dir, err := fetch.Locate(root, platform, product)
	if err != nil {
		cleanup()
		return "", noop, err
	}
	return dir, cleanup, nil
}

func printSummary(s *installer.Summary) {
	fmt.Println()
	fmt.Printf("Run %s against Zabbix %s\n", s.RunID, s.ServerVer)
	fmt.Printf("Template: %s\n", s.TemplateName)

	for _, step := range s.Steps {
		switch step.Status {
		case installer.StepSkipped:
			fmt.Printf("  %-16s skipped\n", step.Name)
		case installer.StepFailed:
			fmt.Printf("  %-16s FAILED: %v\n", step.Name, step.Err)
		default:
			fmt.Printf("  %-16s ok (%s)\n", step.Name, step.Duration.Round(time.Millisecond))
		}
	}

	if len(s.Hosts) > 0 {
		fmt.Println()
		for _, h := range s.Hosts {
			if h.Err != nil {
				fmt.Printf("  host %-24s FAILED: %v\n", h.Host, h.Err)
			} else {
				fmt.Printf("  host %-24s created (id %s)\n", h.Host, h.HostID)
			}
		}
		if n := s.HostFailures(); n > 0 {
			fmt.Printf("\n%d of %d hosts could not be created; see above.\n", n, len(s.Hosts))
		}
	}
}
