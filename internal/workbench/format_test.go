package workbench

import "testing"

func TestFormatInferenceTime(t *testing.T) {
	cases := map[float64]string{
		0:      "0ms",
		0.0424: "42ms",
		0.5:    "500ms",
		1.2345: "1.23s",
		59.5:   "59.50s",
		75:     "1m 15.0s",
		3725.4: "62m 5.4s",
	}
	for in, want := range cases {
		if got := FormatInferenceTime(in); got != want {
			t.Errorf("FormatInferenceTime(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := map[string]string{
		"":                           "Unknown",
		"Unknown":                    "Unknown",
		"2025-07-01T14:03:09.123456": "2025-07-01 14:03:09",
		"2025-07-01T14:03:09":        "2025-07-01 14:03:09",
		"2025-07-01 14:03:09":        "2025-07-01 14:03:09",
		"yesterday":                  "yesterday",
	}
	for in, want := range cases {
		if got := FormatTimestamp(in); got != want {
			t.Errorf("FormatTimestamp(%q) = %q, want %q", in, got, want)
		}
	}
	if got := FormatTimestamp("2025-07-01T14:03:09Z"); got == "2025-07-01T14:03:09Z" || got == "Unknown" {
		t.Errorf("RFC3339 timestamp not parsed: %q", got)
	}
}
