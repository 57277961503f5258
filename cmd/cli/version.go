package cli

import (
	"fmt"

	"github.com/exopredict/exopredict/internal/version"
	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// version needs no config
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			info := version.Get()
			if output != outputTable {
				return writeStructured(cmd.OutOrStdout(), output, info)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exopredict %s\n", info.Short())
			fmt.Fprintf(cmd.OutOrStdout(), "   Go: %s (%s)\n", info.GoVersion, info.Platform)
			if info.BuildDate != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "   Built: %s\n", info.BuildDate)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json or yaml")

	return cmd
}
