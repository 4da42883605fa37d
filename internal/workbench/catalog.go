package workbench

import (
	"sort"
	"strings"

	"github.com/mwiater/hedlab/internal/api"
	"github.com/mwiater/hedlab/internal/appconfig"
)

// localGroup is the provider group served by the backend's local inference engine.
const localGroup = "ollama"

// ProviderGroup is one labelled group of selectable models.
type ProviderGroup struct {
	Name   string
	Label  string
	Models []string
	Cloud  bool
}

// Catalog is the model catalog in display order: local models first, then configured
// cloud providers, then any other group the backend reports, sorted by name. Empty
// groups are dropped.
type Catalog struct {
	Groups []ProviderGroup
}

// NewCatalog orders the raw catalog for display.
func NewCatalog(raw api.ModelCatalog, providers []appconfig.CloudProvider) Catalog {
	cloud := make(map[string]bool, len(providers))
	order := []string{localGroup}
	for _, p := range providers {
		if p.Group == "" || cloud[p.Group] {
			continue
		}
		cloud[p.Group] = true
		order = append(order, p.Group)
	}

	seen := make(map[string]bool, len(raw))
	var rest []string
	for name := range raw {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	order = append(order, rest...)

	var cat Catalog
	for _, name := range order {
		if seen[name] {
			continue
		}
		seen[name] = true
		models := raw[name]
		if len(models) == 0 {
			continue
		}
		cat.Groups = append(cat.Groups, ProviderGroup{
			Name:   name,
			Label:  groupLabel(name),
			Models: append([]string(nil), models...),
			Cloud:  cloud[name],
		})
	}
	return cat
}

func groupLabel(name string) string {
	if name == "" {
		return "Models"
	}
	return strings.ToUpper(name[:1]) + name[1:] + " Models"
}

// Empty reports whether no models are available.
func (c Catalog) Empty() bool { return len(c.Groups) == 0 }

// Models flattens the catalog in display order.
func (c Catalog) Models() []string {
	var out []string
	for _, g := range c.Groups {
		out = append(out, g.Models...)
	}
	return out
}

// GroupOf returns the group that lists model.
func (c Catalog) GroupOf(model string) (ProviderGroup, bool) {
	for _, g := range c.Groups {
		for _, m := range g.Models {
			if m == model {
				return g, true
			}
		}
	}
	return ProviderGroup{}, false
}

// Contains reports whether model is listed.
func (c Catalog) Contains(model string) bool {
	_, ok := c.GroupOf(model)
	return ok
}

func (c Catalog) clone() Catalog {
	out := Catalog{Groups: make([]ProviderGroup, len(c.Groups))}
	for i, g := range c.Groups {
		g.Models = append([]string(nil), g.Models...)
		out.Groups[i] = g
	}
	return out
}

// cloudProviderFor resolves the provider that needs a credential before model can run.
// The catalog group wins; the name prefix covers models typed in by hand.
func cloudProviderFor(c Catalog, providers []appconfig.CloudProvider, model string) (appconfig.CloudProvider, bool) {
	if g, ok := c.GroupOf(model); ok {
		for _, p := range providers {
			if p.Group != "" && p.Group == g.Name {
				return p, true
			}
		}
		if g.Name == localGroup {
			return appconfig.CloudProvider{}, false
		}
	}
	lower := strings.ToLower(model)
	for _, p := range providers {
		if p.Prefix != "" && strings.HasPrefix(lower, strings.ToLower(p.Prefix)) {
			return p, true
		}
	}
	return appconfig.CloudProvider{}, false
}
