package cli

import (
	"context"
	"fmt"

	"github.com/exopredict/exopredict/internal/domain"
	"github.com/exopredict/exopredict/internal/presenter"
	"github.com/spf13/cobra"
)

type featuresOutput struct {
	Features    []string `json:"features" yaml:"features"`
	Count       int      `json:"count" yaml:"count"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

func NewFeaturesCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "features",
		Short: "List the features the scoring service expects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			return runFeatures(cmd.Context(), a, cmd, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json or yaml")

	return cmd
}

func runFeatures(ctx context.Context, a *app, cmd *cobra.Command, output string) error {
	resp, err := a.container.GetClient().GetFeatures(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch features: %w", err)
	}

	catalog, err := domain.NewFeatureCatalog(resp.Features)
	if err != nil {
		return err
	}

	if output != outputTable {
		return writeStructured(cmd.OutOrStdout(), output, featuresOutput{
			Features:    catalog.Names(),
			Count:       catalog.Len(),
			Description: resp.Description,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), presenter.New().RenderCatalog(catalog, resp.Description))
	return nil
}
