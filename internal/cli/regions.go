package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRegionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "Print the active region profile as YAML",
		Long: `Regions prints the profile in effect after environment and flags are
applied. The output is a valid REGIONS_FILE, which makes it a starting point
for a custom profile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(a.cfg.Profile); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
