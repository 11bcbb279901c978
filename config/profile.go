package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"fuzzplot/internal/chart"
)

//go:embed default_profile.yaml
var defaultProfile []byte

// RunStyle renames and colours a run directory on the runs chart
type RunStyle struct {
	Label string `yaml:"label"`
	Color string `yaml:"color"`
}

// Profile holds the presentation choices that differ between experiments
type Profile struct {
	Palette     string                 `yaml:"palette"`
	Runs        map[string]RunStyle    `yaml:"runs"`
	Annotations []chart.AnnotationRule `yaml:"annotations"`
}

func DefaultProfile() *Profile {
	p := &Profile{}
	if err := yaml.Unmarshal(defaultProfile, p); err != nil {
		panic(fmt.Sprintf("embedded profile is invalid: %v", err))
	}
	return p
}

// LoadProfile reads a YAML profile; an empty path yields the embedded default.
// Keys missing from the file keep their default values.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	p, err := parseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return p, nil
}

func parseProfile(data []byte) (*Profile, error) {
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) Validate() error {
	if _, err := chart.NewPalette(p.Palette, 1); err != nil {
		return err
	}
	for dir, style := range p.Runs {
		if style.Color == "" {
			continue
		}
		if _, err := chart.ParseColor(style.Color); err != nil {
			return fmt.Errorf("run %s: %w", dir, err)
		}
	}
	for i, rule := range p.Annotations {
		if len(rule.Series) == 0 {
			return fmt.Errorf("annotation rule %d names no series", i)
		}
		if rule.EveryHours < 0 {
			return fmt.Errorf("annotation rule %d: every_hours must not be negative", i)
		}
	}
	return nil
}

// RunLabel is the display name for a run directory
func (p *Profile) RunLabel(dir string) string {
	if style, ok := p.Runs[dir]; ok && style.Label != "" {
		return style.Label
	}
	return dir
}

// Describe summarises the annotation rules for chart titles
func (p *Profile) Describe() string {
	var parts []string
	for _, rule := range p.Annotations {
		if d := rule.Describe(); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, ", ")
}
