package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/exopredict/exopredict/internal/domain"
	"github.com/exopredict/exopredict/internal/presenter"
	"github.com/exopredict/exopredict/internal/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewPredictCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict whether an object is a planet",
	}

	cmd.AddCommand(newPredictKepIDCommand(a))
	cmd.AddCommand(newPredictFeaturesCommand(a))
	cmd.AddCommand(newPredictCSVCommand(a))

	return cmd
}

func newPredictKepIDCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kepid <id>",
		Short: "Predict by Kepler catalog identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.container.NewSession()
			defer s.Close()

			submission, err := s.SubmitByIdentifier(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return reportSubmission(cmd, submission)
		},
	}
}

func newPredictFeaturesCommand(a *app) *cobra.Command {
	var (
		assignments []string
		sample      bool
		vectorFile  string
	)

	cmd := &cobra.Command{
		Use:   "features",
		Short: "Predict from a full feature vector",
		Long: `Predict from a full feature vector. Every feature listed by 'exopredict features'
must have a value. Values are applied in order: --sample, then --file, then --set.`,
		Example: `  exopredict predict features --sample --set koi_period=3.52
  exopredict predict features --file vector.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.container.NewSession()
			defer s.Close()

			if _, err := s.LoadCatalog(cmd.Context()); err != nil {
				return err
			}

			if err := s.SetMode(domain.ModeByFeatureVector); err != nil {
				return err
			}

			if sample {
				s.FillSampleDefaults()
			}

			if vectorFile != "" {
				values, err := readVectorFile(vectorFile)
				if err != nil {
					return err
				}
				if err := setCells(s, values); err != nil {
					return err
				}
			}

			values, err := parseAssignments(assignments)
			if err != nil {
				return err
			}
			if err := setCells(s, values); err != nil {
				return err
			}

			submission, err := s.SubmitByFeatureVector(cmd.Context())
			if err != nil {
				return err
			}

			return reportSubmission(cmd, submission)
		},
	}

	cmd.Flags().StringArrayVar(&assignments, "set", nil, "Feature value as name=value (repeatable)")
	cmd.Flags().BoolVar(&sample, "sample", false, "Start from typical sample values")
	cmd.Flags().StringVarP(&vectorFile, "file", "f", "", "YAML or JSON file mapping feature names to values")

	return cmd
}

func newPredictCSVCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv <file>",
		Short: "Predict every row of a CSV file and download the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.container.NewSession()
			defer s.Close()

			if err := s.SetMode(domain.ModeByBatchFile); err != nil {
				return err
			}

			if _, err := s.SelectFile(domain.NewPathHandle(args[0])); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), presenter.New().RenderState(domain.FailedState(domain.ModeByBatchFile, 0, err)))
				return errReported
			}

			submission, err := s.SubmitByBatchFile(cmd.Context())
			if err != nil {
				return err
			}

			return reportSubmission(cmd, submission)
		},
	}

	cmd.Flags().Bool("xlsx", false, "Also write an .xlsx copy of the results")

	return cmd
}

// reportSubmission waits for the submission and renders its final state
func reportSubmission(cmd *cobra.Command, submission *session.Submission) error {
	outcome, err := submission.Wait(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), presenter.New().RenderState(outcome.State))

	if outcome.State.Status == domain.StatusFailed {
		log.Debug().Err(outcome.State.Err).Str("request_id", submission.Token.RequestID).Msg("prediction failed")
		return errReported
	}

	return nil
}

func setCells(s *session.Session, values map[string]string) error {
	var unknown []string

	for name, value := range values {
		if err := s.SetCell(name, value); err != nil {
			if errors.Is(err, domain.ErrUnknownFeature) {
				unknown = append(unknown, name)
				continue
			}
			return err
		}
	}

	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrUnknownFeature, strings.Join(unknown, ", "))
	}

	return nil
}

func parseAssignments(assignments []string) (map[string]string, error) {
	values := make(map[string]string, len(assignments))

	for _, assignment := range assignments {
		name, value, ok := strings.Cut(assignment, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q, expected name=value", assignment)
		}
		values[name] = value
	}

	return values, nil
}

// readVectorFile reads a flat name: value mapping. JSON is valid YAML, so
// both formats are accepted.
func readVectorFile(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vector file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse vector file: %w", err)
	}

	values := make(map[string]string, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case nil:
			values[name] = ""
		case map[string]interface{}, []interface{}:
			return nil, fmt.Errorf("feature %s must be a scalar value", name)
		default:
			values[name] = fmt.Sprint(v)
		}
	}

	return values, nil
}
