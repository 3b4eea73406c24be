package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmbmwifi/cambium-nms-templates/pkg/requirements"
	"github.com/cmbmwifi/cambium-nms-templates/pkg/resolver"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a bundle's requirements.yaml",
		Long: `Validate a bundle's requirements.yaml and resolve its configuration
without touching any server.

This command checks:
  - YAML syntax validity
  - Required metadata and input fields
  - Input kinds against the closed set (text, url, secret, boolean, list)
  - Condition expressions
  - Duplicate input names

It then resolves the configuration the way a non-interactive install
would (environment overrides, then declared defaults) and prints the
result with secrets masked. No network calls are made.`,
		Example: `  # Validate the bundle in the current directory
  nms-install validate

  # Validate a specific bundle directory
  nms-install validate templates/zabbix/cambium-fiber`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			reqs, err := requirements.NewLoader().Load(path)
			if err != nil {
				return err
			}

			fmt.Printf("Template: %s\n", reqs.Metadata.Name)
			fmt.Printf("Inputs declared: %d\n", len(reqs.UserInputs))
			for _, in := range reqs.UserInputs {
				line := fmt.Sprintf("  %-20s %s", in.Name, in.Type)
				if in.Condition != nil {
					line += fmt.Sprintf("  (when %s)", in.Condition)
				}
				fmt.Println(line)
			}

			log, err := newLogger()
			if err != nil {
				return err
			}
			cfg, err := resolver.New(resolver.Options{
				Overrides: resolver.NewEnvOverrides(),
				Logger:    log,
			}).Resolve(reqs.UserInputs)
			if err != nil {
				return err
			}

			fmt.Println("\nResolved configuration (overrides and defaults):")
			for _, name := range cfg.Names() {
				v, _ := cfg.Value(name)
				fmt.Printf("  %-20s %s\n", name, v.Display())
			}
			fmt.Println("\nrequirements.yaml is valid")
			return nil
		},
	}

	return cmd
}
