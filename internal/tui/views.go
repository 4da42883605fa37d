package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/hedlab/internal/logging"
	"github.com/mwiater/hedlab/internal/util"
	"github.com/mwiater/hedlab/internal/workbench"
)

// newMarkdownRenderer returns nil when markdown rendering is disabled or unavailable.
func newMarkdownRenderer(style string, width int) *glamour.TermRenderer {
	if style == "" || style == "none" {
		return nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logging.LogEvent("tui: markdown renderer %q: %v", style, err)
		return nil
	}
	return r
}

func (m *model) renderMarkdown(text string) string {
	if m.markdown == nil {
		return util.WrapToWidth(text, m.results.Width)
	}
	out, err := m.markdown.Render(text)
	if err != nil {
		logging.LogEvent("tui: render markdown: %v", err)
		return util.WrapToWidth(text, m.results.Width)
	}
	return strings.Trim(out, "\n")
}

// renderResults fills the results viewport from the last run.
func (m *model) renderResults() {
	run := m.state.LastRun
	if run == nil {
		m.results.SetContent("")
		return
	}
	res := run.Result
	var b strings.Builder

	var meta []string
	if res.ExperimentID != "" {
		meta = append(meta, "Experiment "+string(res.ExperimentID))
	}
	if run.InferenceTime != "" {
		meta = append(meta, "Inference "+run.InferenceTime)
	}
	if res.ValidationIssues != nil {
		meta = append(meta, fmt.Sprintf("%d validation issues", *res.ValidationIssues))
	}
	if res.QualityGrade != nil {
		meta = append(meta, "Quality "+string(res.QualityGrade.Score))
	}
	if res.AutoSaved && res.Filename != "" {
		meta = append(meta, "Saved as "+res.Filename)
	}
	if len(meta) > 0 {
		b.WriteString(mutedStyle.Render(strings.Join(meta, " · ")) + "\n\n")
	}
	if res.Annotation != nil && *res.Annotation != "" {
		b.WriteString(sectionStyle.Render("Annotation") + "\n")
		b.WriteString(annotationStyle.Width(max(m.results.Width-4, 10)).Render(*res.Annotation) + "\n\n")
	}
	b.WriteString(sectionStyle.Render("Model Response") + "\n")
	b.WriteString(m.renderMarkdown(res.Response) + "\n")
	if res.QualityGrade != nil && res.QualityGrade.FullResponse != "" {
		b.WriteString("\n" + sectionStyle.Render("Grader Response") + "\n")
		b.WriteString(util.WrapToWidth(res.QualityGrade.FullResponse, m.results.Width) + "\n")
	}
	if res.Prompt != "" {
		b.WriteString("\n" + sectionStyle.Render("Full Prompt") + "\n")
		b.WriteString(mutedStyle.Render(util.WrapToWidth(res.Prompt, m.results.Width)) + "\n")
	}
	m.results.SetContent(b.String())
	m.results.GotoTop()
}

// renderDetail fills the detail viewport from the current experiment.
func (m *model) renderDetail() {
	cur := m.state.Current
	if cur == nil {
		m.detail.SetContent("")
		return
	}
	var b strings.Builder
	for _, sec := range workbench.DetailSections(*cur) {
		if !sec.Block {
			b.WriteString(labelStyle.Render(sec.Title+": ") + sec.Body + "\n")
			continue
		}
		b.WriteString("\n" + sectionStyle.Render(sec.Title) + "\n")
		switch sec.Title {
		case "Model Response":
			b.WriteString(m.renderMarkdown(sec.Body) + "\n")
		case "Annotation":
			b.WriteString(annotationStyle.Width(max(m.detail.Width-4, 10)).Render(sec.Body) + "\n")
		default:
			b.WriteString(util.WrapToWidth(sec.Body, m.detail.Width) + "\n")
		}
	}
	m.detail.SetContent(b.String())
	m.detail.GotoTop()
}

// View renders the whole screen.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	var b strings.Builder
	header := lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render("hedlab"), " ", renderTabs(m.tab))
	if m.state.Vocab.Dirty() {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, dirtyBadgeStyle.Render("vocabulary modified"))
	}
	b.WriteString(header + "\n")
	if alert, ok := m.session.Alerts().Current(); ok {
		b.WriteString(renderAlert(alert, m.width) + "\n")
	}
	b.WriteString("\n")

	switch m.tab {
	case tabRun:
		b.WriteString(m.runView())
	case tabHistory:
		b.WriteString(m.historyView())
	case tabDescriptions:
		b.WriteString(m.descriptionsView())
	case tabVocab:
		b.WriteString(m.vocabView())
	case tabCredentials:
		b.WriteString(m.credentialsView())
	}

	b.WriteString("\n")
	if m.confirm != nil {
		b.WriteString(confirmStyle.Render(m.confirm.question+" (y/n)") + "\n")
	} else if m.pending > 0 && m.tab != tabRun {
		b.WriteString(m.spinner.View() + " Working...\n")
	}
	b.WriteString(m.help.ShortHelpView(m.helpFor()))
	return b.String()
}

func (m *model) fieldLabel(f formField, text string) string {
	if m.focus == f {
		return focusLabelStyle.Render("› " + text)
	}
	return labelStyle.Render("  " + text)
}

func (m *model) runView() string {
	var b strings.Builder
	b.WriteString(m.fieldLabel(fieldModel, "Model:       ") + m.modelInput.View())
	if m.state.ModelsErr != "" {
		b.WriteString(" " + errorStyle.Render(m.state.ModelsErr))
	} else if !m.state.Catalog.Empty() {
		b.WriteString(" " + mutedStyle.Render(m.catalogHint()))
	}
	b.WriteString("\n")
	b.WriteString(m.fieldLabel(fieldName, "Name:        ") + m.nameInput.View() + "\n")
	b.WriteString(m.fieldLabel(fieldDescription, "Description") + "\n" + m.descInput.View() + "\n")
	b.WriteString(m.fieldLabel(fieldTemplate, "Prompt Template") + "\n" + m.templateInput.View() + "\n")

	if m.state.Running {
		elapsed := fmt.Sprintf("%.1f", time.Since(m.runStarted).Seconds())
		b.WriteString("\n" + m.spinner.View() + " Running experiment... " + elapsed + "s\n")
		return b.String()
	}
	if m.state.LastRun != nil {
		b.WriteString("\n" + m.results.View() + "\n")
	}
	return b.String()
}

// catalogHint names the group of the typed model, or lists the group sizes.
func (m *model) catalogHint() string {
	if g, ok := m.state.Catalog.GroupOf(strings.TrimSpace(m.modelInput.Value())); ok {
		if g.Cloud {
			return g.Label + " (requires API key)"
		}
		return g.Label
	}
	var parts []string
	for _, g := range m.state.Catalog.Groups {
		parts = append(parts, fmt.Sprintf("%s: %d", g.Label, len(g.Models)))
	}
	return strings.Join(parts, ", ")
}

func (m *model) historyView() string {
	if m.detailOpen {
		var b strings.Builder
		if m.renaming {
			b.WriteString(m.renameInput.View() + "\n\n")
		}
		b.WriteString(m.detail.View())
		return b.String()
	}
	if m.state.ExperimentsErr != "" {
		return errorStyle.Render(m.state.ExperimentsErr)
	}
	if len(m.state.Experiments) == 0 {
		return mutedStyle.Render("No experiments yet. Run one from the Run tab.")
	}
	return m.historyList.View()
}

func (m *model) descriptionsView() string {
	if m.state.DescriptionsErr != "" {
		return errorStyle.Render(m.state.DescriptionsErr)
	}
	if len(m.state.Descriptions) == 0 {
		return mutedStyle.Render("No descriptions used yet.")
	}
	return m.descList.View()
}

func (m *model) vocabView() string {
	if !m.state.Vocab.Loaded {
		return m.spinner.View() + " Loading vocabulary..."
	}
	return m.vocabInput.View()
}

func (m *model) credentialsView() string {
	var b strings.Builder
	b.WriteString(m.credList.View())
	if m.editingCred != "" {
		b.WriteString("\n" + m.credInput.View() + badgeStyle.Render("enter to save, esc to cancel"))
	}
	return b.String()
}
