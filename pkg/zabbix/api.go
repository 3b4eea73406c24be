package zabbix

import (
	"context"
	"encoding/json"
	"fmt"
)

// Template is the subset of template fields the installer works with.
type Template struct {
	TemplateID string `json:"templateid"`
	Host       string `json:"host"`
	Name       string `json:"name"`
}

// Host is the subset of host fields the installer works with.
type Host struct {
	HostID string `json:"hostid"`
	Host   string `json:"host"`
}

// Macro is a template-scoped user macro.
type Macro struct {
	Macro string `json:"macro"`
	Value string `json:"value"`
}

// HostSpec describes a monitored host to create.
type HostSpec struct {
	Host       string
	Name       string
	GroupID    string
	TemplateID string
	Address    string
}

// TemplateByName looks a template up by its technical name. A missing
// template is (nil, nil), not an error; steps use that for their
// lookup-before-act idempotency.
func (c *Client) TemplateByName(ctx context.Context, name string) (*Template, error) {
	raw, err := c.Call(ctx, "template.get", map[string]interface{}{
		"filter": map[string]interface{}{"host": name},
		"output": []string{"templateid", "host", "name"},
	})
	if err != nil {
		return nil, err
	}
	var templates []Template
	if err := json.Unmarshal(raw, &templates); err != nil {
		return nil, fmt.Errorf("template.get: decoding result: %w", err)
	}
	if len(templates) == 0 {
		return nil, nil
	}
	return &templates[0], nil
}

// TemplateDelete removes templates by id.
func (c *Client) TemplateDelete(ctx context.Context, ids ...string) error {
	_, err := c.Call(ctx, "template.delete", ids)
	return err
}

// TemplateUpdateMacros replaces the template's user macros. The update is
// idempotent by construction.
func (c *Client) TemplateUpdateMacros(ctx context.Context, templateID string, macros []Macro) error {
	_, err := c.Call(ctx, "template.update", map[string]interface{}{
		"templateid": templateID,
		"macros":     macros,
	})
	return err
}

// TemplateGroupEnsure returns the id of the named template group, creating
// it when missing.
func (c *Client) TemplateGroupEnsure(ctx context.Context, name string) (string, error) {
	return c.ensureGroup(ctx, "templategroup", name)
}

// HostGroupEnsure returns the id of the named host group, creating it when
// missing.
func (c *Client) HostGroupEnsure(ctx context.Context, name string) (string, error) {
	return c.ensureGroup(ctx, "hostgroup", name)
}

func (c *Client) ensureGroup(ctx context.Context, object, name string) (string, error) {
	raw, err := c.Call(ctx, object+".get", map[string]interface{}{
		"filter": map[string]interface{}{"name": name},
		"output": []string{"groupid"},
	})
	if err != nil {
		return "", err
	}
	var groups []struct {
		GroupID string `json:"groupid"`
	}
	if err := json.Unmarshal(raw, &groups); err != nil {
		return "", fmt.Errorf("%s.get: decoding result: %w", object, err)
	}
	if len(groups) > 0 {
		return groups[0].GroupID, nil
	}

	raw, err = c.Call(ctx, object+".create", map[string]interface{}{"name": name})
	if err != nil {
		return "", err
	}
	var created struct {
		GroupIDs []string `json:"groupids"`
	}
	if err := json.Unmarshal(raw, &created); err != nil {
		return "", fmt.Errorf("%s.create: decoding result: %w", object, err)
	}
	if len(created.GroupIDs) == 0 {
		return "", fmt.Errorf("%s.create: no group id returned", object)
	}
	return created.GroupIDs[0], nil
}

// HostsByTemplate lists the hosts linked to a template.
func (c *Client) HostsByTemplate(ctx context.Context, templateID string) ([]Host, error) {
	raw, err := c.Call(ctx, "host.get", map[string]interface{}{
		"templateids": []string{templateID},
		"output":      []string{"hostid", "host"},
	})
	if err != nil {
		return nil, err
	}
	var hosts []Host
	if err := json.Unmarshal(raw, &hosts); err != nil {
		return nil, fmt.Errorf("host.get: decoding result: %w", err)
	}
	return hosts, nil
}

// HostDelete bulk-deletes hosts by id.
func (c *Client) HostDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := c.Call(ctx, "host.delete", ids)
	return err
}

// HostCreate creates a monitored host with a single agent interface, bound
// to the given group and template.
func (c *Client) HostCreate(ctx context.Context, spec HostSpec) (string, error) {
	raw, err := c.Call(ctx, "host.create", map[string]interface{}{
		"host":      spec.Host,
		"name":      spec.Name,
		"groups":    []map[string]string{{"groupid": spec.GroupID}},
		"templates": []map[string]string{{"templateid": spec.TemplateID}},
		"interfaces": []map[string]interface{}{{
			"type":  1,
			"main":  1,
			"useip": 1,
			"ip":    spec.Address,
			"dns":   "",
			"port":  "10050",
		}},
	})
	if err != nil {
		return "", err
	}
	var created struct {
		HostIDs []string `json:"hostids"`
	}
	if err := json.Unmarshal(raw, &created); err != nil {
		return "", fmt.Errorf("host.create: decoding result: %w", err)
	}
	if len(created.HostIDs) == 0 {
		return "", fmt.Errorf("host.create: no host id returned")
	}
	return created.HostIDs[0], nil
}

// ConfigurationImport imports a template definition with create-or-update
// rules for every sub-resource kind, so reruns converge on the same state.
func (c *Client) ConfigurationImport(ctx context.Context, format, source string) error {
	createOrUpdate := map[string]bool{"createMissing": true, "updateExisting": true}
	createOnly := map[string]bool{"createMissing": true}

	raw, err := c.Call(ctx, "configuration.import", map[string]interface{}{
		"format": format,
		"source": source,
		"rules": map[string]interface{}{
			"templates":       createOrUpdate,
			"template_groups": createOnly,
			"items":           createOrUpdate,
			"triggers":        createOrUpdate,
			"discoveryRules":  createOrUpdate,
			"graphs":          createOrUpdate,
			"valueMaps":       createOrUpdate,
		},
	})
	if err != nil {
		return err
	}
	var ok bool
	if err := json.Unmarshal(raw, &ok); err == nil && !ok {
		return fmt.Errorf("configuration.import: server reported failure")
	}
	return nil
}
