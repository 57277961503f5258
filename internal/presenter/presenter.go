package presenter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/exopredict/exopredict/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

const (
	MessagePlanet     = "✅ Likely a Planet!"
	MessageNotPlanet  = "❌ Likely Not a Planet"
	MessageDownloaded = "✅ Success! Predictions downloaded."
	MessagePending    = "Predicting..."
)

// Presenter renders session state for the terminal. Every rendering is built
// from a single RequestState, so a result and an error never appear together.
type Presenter struct {
	title     lipgloss.Style
	box       lipgloss.Style
	success   lipgloss.Style
	failure   lipgloss.Style
	secondary lipgloss.Style
}

func New() *Presenter {
	return &Presenter{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess),
		failure: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError),
		secondary: lipgloss.NewStyle().
			Foreground(ColorSecondary),
	}
}

// VerdictMessage is the headline for a single-item result
func VerdictMessage(result domain.PredictionResult) string {
	if result.Verdict() == domain.VerdictPlanet {
		return MessagePlanet
	}
	return MessageNotPlanet
}

func (p *Presenter) RenderState(state domain.RequestState) string {
	switch state.Status {
	case domain.StatusPending:
		return p.secondary.Render(MessagePending)
	case domain.StatusSucceeded:
		if state.Batch != nil {
			return p.renderBatch(*state.Batch)
		}
		if state.Result != nil {
			return p.renderResult(*state.Result)
		}
	case domain.StatusFailed:
		return p.box.BorderForeground(ColorError).Render(p.failure.Render("Error: " + state.Message))
	}

	return ""
}

func (p *Presenter) renderResult(result domain.PredictionResult) string {
	headline := p.success.Render(VerdictMessage(result))
	if result.Verdict() == domain.VerdictNotPlanet {
		headline = p.failure.Render(VerdictMessage(result))
	}

	lines := []string{
		headline,
		fmt.Sprintf("Planet probability: %s", result.Display()),
	}

	return p.box.Render(strings.Join(lines, "\n"))
}

func (p *Presenter) renderBatch(batch domain.BatchResult) string {
	lines := []string{
		p.success.Render(MessageDownloaded),
		fmt.Sprintf("Saved to: %s", batch.Path),
	}

	if batch.Summary.Rows > 0 {
		lines = append(lines, p.secondary.Render(fmt.Sprintf("%d rows: %d planets, %d not planets",
			batch.Summary.Rows, batch.Summary.Planets, batch.Summary.NotPlanets)))
	}

	return p.box.Render(strings.Join(lines, "\n"))
}

// RenderCatalog lists the feature names in catalog order
func (p *Presenter) RenderCatalog(catalog domain.FeatureCatalog, description string) string {
	if catalog.IsEmpty() {
		return p.failure.Render("No features available")
	}

	lines := []string{p.title.Render(fmt.Sprintf("Features (%d)", catalog.Len()))}
	if description != "" {
		lines = append(lines, p.secondary.Render(description))
	}

	for i, name := range catalog.Names() {
		lines = append(lines, fmt.Sprintf("%3d  %s", i+1, name))
	}

	return strings.Join(lines, "\n")
}

// RenderInfo shows the scoring service banner
func (p *Presenter) RenderInfo(baseURL, message string, endpoints map[string]string) string {
	lines := []string{
		p.success.Render("✅ Prediction service is reachable"),
		fmt.Sprintf("URL: %s", baseURL),
	}

	if message != "" {
		lines = append(lines, fmt.Sprintf("Message: %s", message))
	}

	names := make([]string, 0, len(endpoints))
	for name := range endpoints {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		lines = append(lines, p.secondary.Render(fmt.Sprintf("  %s: %s", name, endpoints[name])))
	}

	return p.box.Render(strings.Join(lines, "\n"))
}

// RenderUnreachable reports a failed status probe
func (p *Presenter) RenderUnreachable(baseURL string, err error) string {
	lines := []string{
		p.failure.Render("❌ " + domain.UserMessage(err)),
		fmt.Sprintf("URL: %s", baseURL),
	}
	return p.box.BorderForeground(ColorError).Render(strings.Join(lines, "\n"))
}
