package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/mwiater/hedlab/internal/api"
	"github.com/mwiater/hedlab/internal/util"
	"github.com/mwiater/hedlab/internal/workbench"
)

// experimentItem is a history row.
type experimentItem struct {
	summary api.ExperimentSummary
}

func (i experimentItem) Title() string { return i.summary.DisplayName() }

func (i experimentItem) Description() string {
	parts := []string{i.summary.Model, workbench.FormatTimestamp(i.summary.Timestamp)}
	if i.summary.InferenceTime != nil {
		parts = append(parts, workbench.FormatInferenceTime(*i.summary.InferenceTime))
	}
	if i.summary.ValidationIssues != nil {
		parts = append(parts, fmt.Sprintf("%d issues", *i.summary.ValidationIssues))
	}
	if i.summary.QualityScore != nil && *i.summary.QualityScore != "" {
		parts = append(parts, "score "+string(*i.summary.QualityScore))
	}
	if d := util.SingleLine(i.summary.Description); d != "" {
		parts = append(parts, util.TruncateRunes(d, 60))
	}
	return strings.Join(parts, " · ")
}

func (i experimentItem) FilterValue() string {
	return i.summary.DisplayName() + " " + i.summary.Model + " " + i.summary.Description
}

func experimentItems(summaries []api.ExperimentSummary) []list.Item {
	items := make([]list.Item, len(summaries))
	for i, s := range summaries {
		items[i] = experimentItem{summary: s}
	}
	return items
}

// descriptionItem is a description history row. index points into State.Descriptions.
type descriptionItem struct {
	entry api.DescriptionEntry
	index int
}

func (i descriptionItem) Title() string {
	return util.TruncateRunes(util.SingleLine(i.entry.Description), 100)
}

func (i descriptionItem) Description() string {
	if i.entry.Count == 1 {
		return "used once"
	}
	return fmt.Sprintf("used %d times", i.entry.Count)
}

func (i descriptionItem) FilterValue() string { return i.entry.Description }

func descriptionItems(entries []api.DescriptionEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = descriptionItem{entry: e, index: i}
	}
	return items
}

// credentialItem is a configured or available credential variable.
type credentialItem struct {
	name       string
	configured bool
	preview    string
}

func (i credentialItem) Title() string { return i.name }

func (i credentialItem) Description() string {
	if i.configured {
		return "configured " + i.preview + " · enter to update, x to remove"
	}
	return "not set · enter to add"
}

func (i credentialItem) FilterValue() string { return i.name }

func credentialItems(configured []workbench.Credential, unconfigured []string) []list.Item {
	items := make([]list.Item, 0, len(configured)+len(unconfigured))
	for _, c := range configured {
		items = append(items, credentialItem{name: c.Name, configured: true, preview: c.Preview})
	}
	for _, name := range unconfigured {
		items = append(items, credentialItem{name: name})
	}
	return items
}
