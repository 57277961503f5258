package cli

import (
	"fmt"

	"github.com/exopredict/exopredict/internal/domain"
	"github.com/spf13/cobra"
)

func NewTemplateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Download a CSV template with the expected columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.container.NewSession()
			defer s.Close()

			if _, err := s.LoadCatalog(cmd.Context()); err != nil {
				return err
			}

			artifact, err := s.TemplateCSV()
			if err != nil {
				return err
			}

			path, err := a.container.GetArtifactSink().Deliver(cmd.Context(), artifact)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Template saved to %s (%d features, %d sample rows)\n",
				path, s.Catalog().Len(), domain.TemplateSampleRows)
			return nil
		},
	}

	cmd.Flags().Bool("xlsx", false, "Also write an .xlsx copy of the template")

	return cmd
}
