package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/exopredict/exopredict/internal/domain"
	"github.com/exopredict/exopredict/internal/initialization"
	"github.com/exopredict/exopredict/internal/presenter"
	"github.com/exopredict/exopredict/internal/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	actionTemplate     = "template"
	actionRetryCatalog = "retry-catalog"
	actionQuit         = "quit"

	featuresPerPage = 10
)

func NewInteractiveCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive prediction session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), a.container, cmd.OutOrStdout())
		},
	}

	return cmd
}

type interactiveSession struct {
	container *initialization.Container
	session   *session.Session
	presenter *presenter.Presenter
	out       io.Writer
}

func runInteractive(ctx context.Context, container *initialization.Container, out io.Writer) error {
	is := &interactiveSession{
		container: container,
		session:   container.NewSession(),
		presenter: presenter.New(),
		out:       out,
	}
	defer is.session.Close()

	log.Debug().Str("session_id", is.session.ID()).Msg("interactive session started")

	is.loadCatalog(ctx)

	for {
		action, err := is.chooseAction()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		switch action {
		case actionQuit:
			return nil
		case actionRetryCatalog:
			is.loadCatalog(ctx)
		case actionTemplate:
			is.downloadTemplate(ctx)
		default:
			mode, err := domain.ParseSessionMode(action)
			if err != nil {
				return err
			}

			if err := is.predict(ctx, mode); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					continue
				}
				return err
			}
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (is *interactiveSession) loadCatalog(ctx context.Context) {
	catalog, err := is.session.LoadCatalog(ctx)
	if err != nil {
		fmt.Fprintln(is.out, is.presenter.RenderState(domain.FailedState(domain.ModeByFeatureVector, 0, err)))
		return
	}

	fmt.Fprintf(is.out, "Loaded %d features from %s\n", catalog.Len(), is.container.GetBaseURL())
}

func (is *interactiveSession) chooseAction() (string, error) {
	current := is.session.Mode().String()

	options := make([]huh.Option[string], 0, len(domain.SessionModes())+3)
	for _, mode := range domain.SessionModes() {
		options = append(options, huh.NewOption(mode.Title(), mode.String()))
	}

	if is.session.Catalog().IsEmpty() {
		options = append(options, huh.NewOption("Retry loading the feature list", actionRetryCatalog))
	} else {
		options = append(options, huh.NewOption("Download CSV template", actionTemplate))
	}
	options = append(options, huh.NewOption("Quit", actionQuit))

	action := current
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to do?").
				Options(options...).
				Value(&action),
		),
	).Run()

	return action, err
}

func (is *interactiveSession) predict(ctx context.Context, mode domain.SessionMode) error {
	if err := is.session.SetMode(mode); err != nil {
		return err
	}

	var err error
	switch mode {
	case domain.ModeByIdentifier:
		err = is.collectIdentifier()
	case domain.ModeByFeatureVector:
		err = is.collectFeatures()
	case domain.ModeByBatchFile:
		var staged bool
		staged, err = is.collectFile()
		if err == nil && !staged {
			return nil
		}
	}
	if err != nil {
		return err
	}

	submission, err := is.session.Submit(ctx)
	if err != nil {
		return err
	}

	select {
	case <-submission.Done():
	default:
		finished, err := runSpinner("Predicting...", submission.Done())
		if err != nil {
			return err
		}
		if !finished {
			fmt.Fprintln(is.out, "Stopped waiting. A newer submission will replace this one.")
			return nil
		}
	}

	outcome, err := submission.Wait(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(is.out, is.presenter.RenderState(outcome.State))
	return nil
}

func (is *interactiveSession) collectIdentifier() error {
	identifier := is.session.Identifier()

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("KepID").
				Placeholder("e.g. 10797460").
				Value(&identifier),
		),
	).Run()
	if err != nil {
		return err
	}

	is.session.SetIdentifier(identifier)
	return nil
}

func (is *interactiveSession) collectFeatures() error {
	if is.session.Catalog().IsEmpty() {
		return nil
	}

	var useSample bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Fill in sample values first?").
				Value(&useSample),
		),
	).Run()
	if err != nil {
		return err
	}

	if useSample {
		is.session.FillSampleDefaults()
	}

	cells := is.session.Cells()
	values := make([]string, len(cells))

	var groups []*huh.Group
	for start := 0; start < len(cells); start += featuresPerPage {
		end := start + featuresPerPage
		if end > len(cells) {
			end = len(cells)
		}

		fields := make([]huh.Field, 0, end-start)
		for i := start; i < end; i++ {
			values[i] = cells[i].Value
			fields = append(fields, huh.NewInput().
				Title(cells[i].Name).
				Value(&values[i]))
		}

		groups = append(groups, huh.NewGroup(fields...).
			Description(fmt.Sprintf("Features %d-%d of %d", start+1, end, len(cells))))
	}

	if err := huh.NewForm(groups...).Run(); err != nil {
		return err
	}

	for i, cell := range cells {
		if err := is.session.SetCell(cell.Name, values[i]); err != nil {
			return err
		}
	}

	return nil
}

// collectFile reports whether the batch should be submitted
func (is *interactiveSession) collectFile() (bool, error) {
	var path string

	title := "Path to a CSV file"
	if staged, ok := is.session.StagedFile(); ok {
		title = fmt.Sprintf("Path to a CSV file (leave empty to use %s)", staged.Name())
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(&path),
		),
	).Run()
	if err != nil {
		return false, err
	}

	// an empty path submits whatever is staged
	path = strings.TrimSpace(path)
	if path == "" {
		return true, nil
	}

	if _, err := is.session.SelectFile(domain.NewPathHandle(path)); err != nil {
		fmt.Fprintln(is.out, is.presenter.RenderState(domain.FailedState(domain.ModeByBatchFile, 0, err)))
		return false, nil
	}

	return true, nil
}

func (is *interactiveSession) downloadTemplate(ctx context.Context) {
	artifact, err := is.session.TemplateCSV()
	if err == nil {
		var path string
		path, err = is.container.GetArtifactSink().Deliver(ctx, artifact)
		if err == nil {
			fmt.Fprintf(is.out, "Template saved to %s\n", path)
			return
		}
	}

	fmt.Fprintln(is.out, is.presenter.RenderState(domain.FailedState(domain.ModeByBatchFile, 0, err)))
}
