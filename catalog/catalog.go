// Package catalog loads framework catalog assets: the question definitions
// and control applicability matrix for each supported framework, shipped as
// versioned YAML files and selected by highest semantic version at startup.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v2"

	"github.com/attestia/assurance-backend/model"
)

// Catalog is one loaded framework definition.
type Catalog struct {
	Framework     model.Framework
	Version       *semver.Version
	Architectures []model.Architecture
	Matrix        *model.ControlApplicabilityMatrix
	Questions     []model.Question
}

// Control returns the control with the given id, or nil.
func (c *Catalog) Control(controlID string) *model.Control {
	return c.Matrix.FindControl(controlID)
}

// Library holds the active catalog per framework.
type Library struct {
	catalogs map[model.Framework]*Catalog
}

type catalogFile struct {
	Framework     string                `yaml:"framework"`
	Version       string                `yaml:"version"`
	Architectures []string              `yaml:"architectures"`
	Domains       []model.ControlDomain `yaml:"domains"`
	Questions     []model.Question      `yaml:"questions"`
}

// Load reads every .yaml/.yml file in dir as a catalog asset. Multiple
// versions of the same framework may coexist in the directory; the highest
// semantic version wins. A malformed asset fails the load with the filename
// in the error, so a bad deploy is caught at startup rather than mid-audit.
func Load(dir string) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog directory %s: %w", dir, err)
	}

	lib := &Library{catalogs: map[model.Framework]*Catalog{}}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		cat, err := loadFile(path)
		if err != nil {
			return nil, err
		}

		current, ok := lib.catalogs[cat.Framework]
		if !ok || cat.Version.GreaterThan(current.Version) {
			lib.catalogs[cat.Framework] = cat
		}
	}

	if len(lib.catalogs) == 0 {
		return nil, fmt.Errorf("no catalog assets found in %s", dir)
	}

	return lib, nil
}

func loadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var cf catalogFile
	if err := yaml.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}

	framework := model.Framework(cf.Framework)
	if !knownFramework(framework) {
		return nil, fmt.Errorf("catalog %s: unknown framework %q", path, cf.Framework)
	}

	version, err := semver.NewVersion(cf.Version)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: invalid version %q: %w", path, cf.Version, err)
	}

	if len(cf.Questions) == 0 {
		return nil, fmt.Errorf("catalog %s: no questions defined", path)
	}
	seen := map[string]bool{}
	for i, q := range cf.Questions {
		if q.ID == "" {
			return nil, fmt.Errorf("catalog %s: question %d has an empty id", path, i)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("catalog %s: duplicate question id %q", path, q.ID)
		}
		seen[q.ID] = true
	}

	architectures := make([]model.Architecture, 0, len(cf.Architectures))
	for _, a := range cf.Architectures {
		architectures = append(architectures, model.Architecture(a))
	}

	return &Catalog{
		Framework:     framework,
		Version:       version,
		Architectures: architectures,
		Matrix: &model.ControlApplicabilityMatrix{
			Framework: framework,
			Version:   cf.Version,
			Domains:   cf.Domains,
		},
		Questions: cf.Questions,
	}, nil
}

func knownFramework(f model.Framework) bool {
	for _, known := range model.KnownFrameworks() {
		if f == known {
			return true
		}
	}
	return false
}

// Frameworks lists the loaded frameworks in the canonical order.
func (l *Library) Frameworks() []model.Framework {
	out := []model.Framework{}
	for _, f := range model.KnownFrameworks() {
		if _, ok := l.catalogs[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Get returns the active catalog for a framework.
func (l *Library) Get(f model.Framework) (*Catalog, bool) {
	cat, ok := l.catalogs[f]
	return cat, ok
}

// Questions returns the question definitions for a framework, or nil when the
// framework is not loaded.
func (l *Library) Questions(f model.Framework) []model.Question {
	if cat, ok := l.catalogs[f]; ok {
		return cat.Questions
	}
	return nil
}

// Matrix returns the applicability matrix for a framework, or nil.
func (l *Library) Matrix(f model.Framework) *model.ControlApplicabilityMatrix {
	if cat, ok := l.catalogs[f]; ok {
		return cat.Matrix
	}
	return nil
}

// ControlKeywords returns control_id -> keywords for a framework, used by the
// evidence search and the control mapper.
func (l *Library) ControlKeywords(f model.Framework) map[string][]string {
	cat, ok := l.catalogs[f]
	if !ok {
		return nil
	}
	out := map[string][]string{}
	for _, d := range cat.Matrix.Domains {
		for _, c := range d.Controls {
			if len(c.Keywords) > 0 {
				out[c.ControlID] = c.Keywords
			}
		}
	}
	return out
}
