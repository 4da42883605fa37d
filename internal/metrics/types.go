// internal/metrics/types.go
package metrics

import "math"

// ModelStats is the aggregate of one model's saved experiments.
type ModelStats struct {
	Model       string `json:"model"`
	Experiments int    `json:"experiments"`
	// CleanAnnotations counts experiments whose annotation had no validation issues.
	CleanAnnotations int         `json:"clean_annotations"`
	InferenceSeconds RunningStat `json:"inference_seconds"`
	ValidationIssues RunningStat `json:"validation_issues"`
	QualityScore     RunningStat `json:"quality_score"`
}

// CleanRate is the share of validated experiments without issues, in [0,1].
func (m ModelStats) CleanRate() float64 {
	if m.ValidationIssues.Count == 0 {
		return 0
	}
	return float64(m.CleanAnnotations) / float64(m.ValidationIssues.Count)
}

// RunningStat holds the necessary values for online calculation of mean, variance, and stddev.
type RunningStat struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"` // Sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Add folds one value in using Welford's online algorithm.
func (rs *RunningStat) Add(value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		rs.Min = math.Min(rs.Min, value)
		rs.Max = math.Max(rs.Max, value)
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	rs.M2 += delta * (value - rs.Mean)
}

// StdDev is the sample standard deviation, or 0 with fewer than two values.
func (rs RunningStat) StdDev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.M2 / float64(rs.Count-1))
}
