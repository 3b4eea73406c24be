package installer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cmbmwifi/cambium-nms-templates/pkg/resolver"
)

// Installer executes the reconciliation pipeline for one run. It reads the
// frozen configuration and the shared API handle; it never mutates either.
type Installer struct {
	api          API
	cfg          *resolver.Config
	templateName string
	bundleDir    string
	scriptsDir   string
	skipDeploy   bool
	observer     Observer
	log          zerolog.Logger
	summary      *Summary
}

// New creates an installer for one run.
func New(opts Options) *Installer {
	scriptsDir := opts.ScriptsDir
	if scriptsDir == "" {
		scriptsDir = DefaultScriptsDir
	}
	runID := uuid.NewString()
	return &Installer{
		api:          opts.API,
		cfg:          opts.Config,
		templateName: opts.TemplateName,
		bundleDir:    opts.BundleDir,
		scriptsDir:   scriptsDir,
		skipDeploy:   opts.SkipDeploy,
		observer:     opts.Observer,
		log: opts.Logger.With().
			Str("component", "installer").
			Str("run_id", runID).
			Logger(),
		summary: &Summary{RunID: runID, TemplateName: opts.TemplateName, ServerVer: opts.ServerVersion},
	}
}

// steps builds the ordered pipeline. Flush and host-creation steps are
// gated on the resolved booleans; the deployment step on API-only mode.
func (i *Installer) steps() []step {
	return []step{
		{name: "flush-template", critical: true, enabled: i.cfg.Bool(resolver.InputFlushTemplate), run: i.flushTemplate},
		{name: "flush-hosts", critical: true, enabled: i.cfg.Bool(resolver.InputFlushHosts), run: i.flushHosts},
		{name: "import-template", critical: true, enabled: true, run: i.importTemplate},
		{name: "deploy-script", critical: true, enabled: !i.skipDeploy, run: i.deployScript},
		{name: "configure-macro", critical: true, enabled: true, run: i.configureMacro},
		{name: "create-hosts", critical: false, enabled: i.cfg.Bool(resolver.InputAddHosts), run: i.createHosts},
	}
}

// Run executes the pipeline sequentially, each step to completion before
// the next. A critical step's failure aborts the run with a *StepError; a
// best-effort step's failure is recorded in the summary and the pipeline
// continues, just like the per-address failures it aggregates. The
// returned summary is valid in both cases.
func (i *Installer) Run(ctx context.Context) (*Summary, error) {
	for _, s := range i.steps() {
		if !s.enabled {
			i.log.Debug().Str("step", s.name).Msg("step skipped")
			i.summary.Steps = append(i.summary.Steps, StepResult{Name: s.name, Status: StepSkipped})
			continue
		}

		i.log.Info().Str("step", s.name).Msg("step started")
		start := time.Now()
		err := s.run(ctx)
		elapsed := time.Since(start)

		if i.observer != nil {
			i.observer.StepCompleted(s.name, err, elapsed)
		}

		if err != nil {
			i.summary.Steps = append(i.summary.Steps, StepResult{
				Name: s.name, Status: StepFailed, Err: err, Duration: elapsed,
			})
			if !s.critical {
				i.log.Warn().Str("step", s.name).Dur("elapsed", elapsed).Err(err).Msg("best-effort step failed, continuing")
				continue
			}
			i.log.Error().Str("step", s.name).Dur("elapsed", elapsed).Err(err).Msg("step failed")
			return i.summary, &StepError{Step: s.name, Resource: i.templateName, Err: err}
		}

		i.summary.Steps = append(i.summary.Steps, StepResult{
			Name: s.name, Status: StepOK, Duration: elapsed,
		})
		i.log.Info().Str("step", s.name).Dur("elapsed", elapsed).Msg("step completed")
	}

	i.log.Info().
		Int("host_failures", i.summary.HostFailures()).
		Int("hosts_attempted", len(i.summary.Hosts)).
		Msg("reconciliation complete")
	return i.summary, nil
}
