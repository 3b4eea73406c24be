package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cmbmwifi/cambium-nms-templates/pkg/resolver"
	"github.com/cmbmwifi/cambium-nms-templates/pkg/zabbix"
)

// HostNameFor derives the deterministic technical host name for an
// address, so re-running the installer targets the same host.
func HostNameFor(address string) string {
	return "olt-" + strings.ReplaceAll(address, ".", "-")
}

// flushTemplate deletes the template when it exists. Lookup-before-delete
// makes it a no-op on a fresh server.
func (i *Installer) flushTemplate(ctx context.Context) error {
	tpl, err := i.api.TemplateByName(ctx, i.templateName)
	if err != nil {
		return err
	}
	if tpl == nil {
		i.log.Info().Str("template", i.templateName).Msg("no existing template, nothing to flush")
		return nil
	}

	if err := i.api.TemplateDelete(ctx, tpl.TemplateID); err != nil {
		return err
	}
	i.log.Info().Str("template", i.templateName).Str("templateid", tpl.TemplateID).Msg("template removed")
	return nil
}

// flushHosts bulk-deletes every host linked to the template. Absent
// template or an empty link set is a no-op.
func (i *Installer) flushHosts(ctx context.Context) error {
	tpl, err := i.api.TemplateByName(ctx, i.templateName)
	if err != nil {
		return err
	}
	if tpl == nil {
		i.log.Info().Str("template", i.templateName).Msg("no existing template, no hosts to flush")
		return nil
	}

	hosts, err := i.api.HostsByTemplate(ctx, tpl.TemplateID)
	if err != nil {
		return err
	}
	if len(hosts) == 0 {
		i.log.Info().Msg("no hosts linked to template")
		return nil
	}

	ids := make([]string, len(hosts))
	for n, h := range hosts {
		ids[n] = h.HostID
	}
	if err := i.api.HostDelete(ctx, ids); err != nil {
		return err
	}
	i.log.Info().Int("count", len(ids)).Msg("linked hosts removed")
	return nil
}

// importTemplate ensures the template group exists and imports the bundle
// definition with create-or-update rules, so reruns converge. Hosts that
// survived a flush keep their link through the reimport.
func (i *Installer) importTemplate(ctx context.Context) error {
	if _, err := i.api.TemplateGroupEnsure(ctx, TemplateGroupName); err != nil {
		return fmt.Errorf("ensuring template group %q: %w", TemplateGroupName, err)
	}

	path := filepath.Join(i.bundleDir, TemplateFileName)
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading template definition: %w", err)
	}

	if err := i.api.ConfigurationImport(ctx, "yaml", string(source)); err != nil {
		return err
	}
	i.log.Info().Str("template", i.templateName).Msg("template imported")
	return nil
}

// deployScript copies the collector script into the external-scripts
// directory and marks it executable. Overwriting is the idempotency.
func (i *Installer) deployScript(_ context.Context) error {
	info, err := os.Stat(i.scriptsDir)
	if err != nil {
		return fmt.Errorf("external scripts directory %s: %w", i.scriptsDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("external scripts path %s is not a directory", i.scriptsDir)
	}

	// Probe writability up front so the diagnostic names the directory,
	// not a half-written file.
	probe, err := os.CreateTemp(i.scriptsDir, ".deploy-probe-*")
	if err != nil {
		return fmt.Errorf("external scripts directory %s is not writable: %w", i.scriptsDir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	src := filepath.Join(i.bundleDir, ScriptFileName)
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading collector script: %w", err)
	}

	dst := filepath.Join(i.scriptsDir, ScriptFileName)
	if err := os.WriteFile(dst, data, 0o755); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := os.Chmod(dst, 0o755); err != nil {
		return fmt.Errorf("marking %s executable: %w", dst, err)
	}

	i.log.Info().Str("script", dst).Msg("collector script deployed")
	return nil
}

// configureMacro updates the template's credential macro with the resolved
// OLT password. The update is idempotent by construction.
func (i *Installer) configureMacro(ctx context.Context) error {
	tpl, err := i.api.TemplateByName(ctx, i.templateName)
	if err != nil {
		return err
	}
	if tpl == nil {
		return fmt.Errorf("template %q not found after import", i.templateName)
	}

	macros := []zabbix.Macro{{Macro: PasswordMacro, Value: i.cfg.String(resolver.InputOLTPassword)}}
	if err := i.api.TemplateUpdateMacros(ctx, tpl.TemplateID, macros); err != nil {
		return err
	}

	i.log.Info().Str("macro", PasswordMacro).Str("value", resolver.Masked).Msg("credential macro configured")
	return nil
}

// createHosts ensures the host group and creates one host per resolved
// address. The loop is best-effort: a failed address is recorded as an
// ItemError and the remaining addresses are still attempted. Only this
// step tolerates partial failure; everything before it is a prerequisite
// for any host to function and stays critical.
func (i *Installer) createHosts(ctx context.Context) error {
	addresses := i.cfg.List(resolver.InputOLTAddresses)
	if len(addresses) == 0 {
		i.log.Info().Msg("no addresses to create hosts for")
		return nil
	}

	groupID, err := i.api.HostGroupEnsure(ctx, HostGroupName)
	if err != nil {
		return fmt.Errorf("ensuring host group %q: %w", HostGroupName, err)
	}
	tpl, err := i.api.TemplateByName(ctx, i.templateName)
	if err != nil {
		return err
	}
	if tpl == nil {
		return fmt.Errorf("template %q not found after import", i.templateName)
	}

	for _, addr := range addresses {
		name := HostNameFor(addr)
		hostID, err := i.api.HostCreate(ctx, zabbix.HostSpec{
			Host:       name,
			Name:       name,
			GroupID:    groupID,
			TemplateID: tpl.TemplateID,
			Address:    addr,
		})

		result := HostResult{Address: addr, Host: name, HostID: hostID}
		if err != nil {
			result.Err = &ItemError{Step: "create-hosts", Item: addr, Err: err}
			i.log.Warn().Str("address", addr).Err(err).Msg("host creation failed, continuing")
		} else {
			i.log.Info().Str("address", addr).Str("host", name).Str("hostid", hostID).Msg("host created")
		}
		i.summary.Hosts = append(i.summary.Hosts, result)

		if i.observer != nil {
			i.observer.HostAttempted(addr, err)
		}
	}
	return nil
}
