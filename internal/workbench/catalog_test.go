package workbench

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mwiater/hedlab/internal/api"
	"github.com/mwiater/hedlab/internal/appconfig"
)

func TestNewCatalogOrder(t *testing.T) {
	raw := api.ModelCatalog{
		"zeta":   {"z1"},
		"gemini": {"gemini-2.5-flash"},
		"ollama": {"qwen3:8b"},
		"alpha":  {"a1"},
		"empty":  {},
	}
	cat := NewCatalog(raw, appconfig.DefaultCloudProviders())

	var names []string
	for _, g := range cat.Groups {
		names = append(names, g.Name)
	}
	if diff := cmp.Diff([]string{"ollama", "gemini", "alpha", "zeta"}, names); diff != "" {
		t.Fatalf("group order (-want +got):\n%s", diff)
	}
	if cat.Groups[1].Label != "Gemini Models" || !cat.Groups[1].Cloud || cat.Groups[0].Cloud {
		t.Fatalf("unexpected group metadata %+v", cat.Groups[:2])
	}
	if !cat.Contains("a1") || cat.Contains("nope") {
		t.Fatal("contains mismatch")
	}
	if diff := cmp.Diff([]string{"qwen3:8b", "gemini-2.5-flash", "a1", "z1"}, cat.Models()); diff != "" {
		t.Fatalf("flattened models (-want +got):\n%s", diff)
	}
}

func TestCloudProviderFor(t *testing.T) {
	providers := []appconfig.CloudProvider{
		{Group: "gemini", Prefix: "gemini", CredentialVar: "GEMINI_API_KEY"},
		{Group: "openai", CredentialVar: "OPENAI_API_KEY"},
	}
	cat := NewCatalog(api.ModelCatalog{
		"ollama": {"qwen3:8b", "gemini-lookalike"},
		"openai": {"gpt-4o"},
	}, providers)

	cases := map[string]string{
		"gpt-4o":           "OPENAI_API_KEY",
		"Gemini-2.5-Pro":   "GEMINI_API_KEY",
		"qwen3:8b":         "",
		"gemini-lookalike": "",
		"mistral":          "",
	}
	for model, want := range cases {
		p, ok := cloudProviderFor(cat, providers, model)
		if got := p.CredentialVar; got != want || ok != (want != "") {
			t.Errorf("%s: got %q (%v), want %q", model, got, ok, want)
		}
	}
}
