package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/qcline-sim/qcline-sim/sim"
)

// newConfigCmd builds the command that prints the effective run configuration
func newConfigCmd() *cobra.Command {
	flags := &configFlags{}
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective run configuration as YAML",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := flags.load(cmd)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			if err := writeConfigYAML(cmd.OutOrStdout(), cfg); err != nil {
				logrus.Fatalf("%v", err)
			}
		},
	}
	flags.register(cmd)
	return cmd
}

func writeConfigYAML(w io.Writer, cfg *sim.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
