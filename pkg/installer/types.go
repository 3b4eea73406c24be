package installer

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cmbmwifi/cambium-nms-templates/pkg/resolver"
	"github.com/cmbmwifi/cambium-nms-templates/pkg/zabbix"
)

// Remote names fixed on the Zabbix side.
const (
	// TemplateGroupName is the template group the imported template joins.
	TemplateGroupName = "Templates/Cambium"

	// HostGroupName is the host group created OLT hosts join.
	HostGroupName = "Cambium Fiber OLTs"

	// PasswordMacro is the template macro the collector script reads the
	// OLT credential from.
	PasswordMacro = "{$OLT_PASSWORD}"
)

// Bundle artifact names and the deployment target.
const (
	// TemplateFileName is the template definition inside the bundle.
	TemplateFileName = "template.yaml"

	// ScriptFileName is the collector script inside the bundle.
	ScriptFileName = "cambium_olt_ssh_json.py"

	// DefaultScriptsDir is where Zabbix looks for external scripts.
	DefaultScriptsDir = "/usr/lib/zabbix/externalscripts"
)

// API is the remote surface the pipeline reconciles against. *zabbix.Client
// satisfies it; tests substitute a fake.
type API interface {
	TemplateByName(ctx context.Context, name string) (*zabbix.Template, error)
	TemplateDelete(ctx context.Context, ids ...string) error
	TemplateUpdateMacros(ctx context.Context, templateID string, macros []zabbix.Macro) error
	TemplateGroupEnsure(ctx context.Context, name string) (string, error)
	HostGroupEnsure(ctx context.Context, name string) (string, error)
	HostsByTemplate(ctx context.Context, templateID string) ([]zabbix.Host, error)
	HostDelete(ctx context.Context, ids []string) error
	HostCreate(ctx context.Context, spec zabbix.HostSpec) (string, error)
	ConfigurationImport(ctx context.Context, format, source string) error
}

// Observer is notified of step and per-host outcomes, typically to feed
// metrics. All methods may be called from the pipeline goroutine only.
type Observer interface {
	StepCompleted(step string, err error, elapsed time.Duration)
	HostAttempted(address string, err error)
}

// Options configures one installer run.
type Options struct {
	// API is the connected, convention-bound client.
	API API

	// Config is the frozen resolved configuration.
	Config *resolver.Config

	// TemplateName is the exact template name from the bundle metadata.
	TemplateName string

	// ServerVersion is the probed Zabbix version, recorded in the summary.
	ServerVersion string

	// BundleDir holds the template definition and collector script.
	BundleDir string

	// ScriptsDir is the external-scripts directory to deploy into.
	// Empty means DefaultScriptsDir.
	ScriptsDir string

	// SkipDeploy disables the filesystem deployment step (API-only mode,
	// for running the installer away from the Zabbix server).
	SkipDeploy bool

	// Logger receives per-step progress.
	Logger zerolog.Logger

	// Observer is optional.
	Observer Observer
}

// StepStatus classifies a step's outcome in the summary.
type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
)

// StepResult is one step's outcome.
type StepResult struct {
	Name     string
	Status   StepStatus
	Err      error
	Duration time.Duration
}

// HostResult is one host-creation attempt.
type HostResult struct {
	Address string
	Host    string
	HostID  string
	Err     error
}

// Summary is the run report. Secrets never appear in it.
type Summary struct {
	RunID        string
	ServerVer    string
	TemplateName string
	Steps        []StepResult
	Hosts        []HostResult
}

// HostFailures counts the recovered per-address failures.
func (s *Summary) HostFailures() int {
	n := 0
	for _, h := range s.Hosts {
		if h.Err != nil {
			n++
		}
	}
	return n
}

// step is one named unit of work in the pipeline.
type step struct {
	name     string
	critical bool
	enabled  bool
	run      func(ctx context.Context) error
}
