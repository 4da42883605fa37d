// internal/metrics/aggregator.go

// Package metrics summarizes saved experiments per model: inference time, validation
// issues and quality scores.
package metrics

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/mwiater/hedlab/internal/api"
	"github.com/mwiater/hedlab/internal/logging"
)

// Aggregator collects per-model statistics. It is safe for concurrent use.
type Aggregator struct {
	mutex  sync.Mutex
	models map[string]*ModelStats
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{models: make(map[string]*ModelStats)}
}

// Record folds one experiment into its model's statistics. Fields the backend did not
// send are skipped, so older records still count as experiments.
func (a *Aggregator) Record(e api.ExperimentSummary) {
	model := strings.TrimSpace(e.Model)
	if model == "" {
		model = "(unknown)"
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	stats, ok := a.models[model]
	if !ok {
		stats = &ModelStats{Model: model}
		a.models[model] = stats
	}
	stats.Experiments++

	if e.InferenceTime != nil {
		stats.InferenceSeconds.Add(*e.InferenceTime)
	}
	if e.ValidationIssues != nil {
		n := int(*e.ValidationIssues)
		stats.ValidationIssues.Add(float64(n))
		if n == 0 {
			stats.CleanAnnotations++
		}
	}
	if e.QualityScore != nil {
		if score, ok := parseScore(string(*e.QualityScore)); ok {
			stats.QualityScore.Add(score)
		} else {
			logging.LogDebug("[METRICS] non-numeric quality score %q for %s", *e.QualityScore, e.Filename)
		}
	}
}

// Snapshot returns the statistics sorted by model name.
func (a *Aggregator) Snapshot() []ModelStats {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	out := make([]ModelStats, 0, len(a.models))
	for _, m := range a.models {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Model < out[j].Model })
	return out
}

// Summarize aggregates a history listing in one pass.
func Summarize(list []api.ExperimentSummary) []ModelStats {
	agg := NewAggregator()
	for _, e := range list {
		agg.Record(e)
	}
	return agg.Snapshot()
}

// parseScore reads grader scores such as "8", "7.5", "8/10" or "85%". Fractions and
// percentages are scaled to the 0-10 range graders use by default.
func parseScore(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, ok1 := finiteFloat(num)
		d, ok2 := finiteFloat(den)
		if !ok1 || !ok2 || d <= 0 {
			return 0, false
		}
		return n / d * 10, true
	}
	if strings.HasSuffix(s, "%") {
		v, ok := finiteFloat(strings.TrimSuffix(s, "%"))
		if !ok {
			return 0, false
		}
		return v / 10, true
	}
	return finiteFloat(s)
}

// finiteFloat parses s, rejecting NaN and infinities.
func finiteFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
