package cli

import (
	"fmt"

	"github.com/exopredict/exopredict/internal/domain"
	"github.com/exopredict/exopredict/internal/managers"
	"github.com/exopredict/exopredict/internal/presenter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewStatusCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check that the scoring service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, a)
		},
	}

	return cmd
}

func runStatus(cmd *cobra.Command, a *app) error {
	p := presenter.New()
	baseURL := a.container.GetBaseURL()

	info, err := a.container.GetClient().GetInfo(cmd.Context())
	if err != nil {
		log.Debug().Err(err).Str("api_base_url", baseURL).Msg("status check failed")
		fmt.Fprintln(cmd.OutOrStdout(), p.RenderUnreachable(baseURL, managers.ClassifyError(err, domain.MessageUnexpectedResponse)))
		return errReported
	}

	fmt.Fprintln(cmd.OutOrStdout(), p.RenderInfo(baseURL, info.Message, info.Endpoints))
	return nil
}
