package domain

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a product is created from scratch or a server value
// is absent.
const (
	DefaultCategory          = "SOFAS"
	DefaultEnvironmentPreset = "STUDIO"
	DefaultFeatureIcon       = "sparkles"
	DefaultFabricHexColor    = "#CCCCCC"
	DefaultLeadTimeDays      = 21
	DefaultReturnDays        = 14
	DefaultWarrantyYears     = 2
	DefaultModelScale        = 1.0
)

//go:embed options.yaml
var optionsYAML []byte

// Option is one selectable value with its display label.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// FormOptions lists the closed value sets the product form offers.
type FormOptions struct {
	Categories         []Option `yaml:"categories" json:"categories"`
	EnvironmentPresets []Option `yaml:"environmentPresets" json:"environmentPresets"`
	FeatureIcons       []Option `yaml:"featureIcons" json:"featureIcons"`
	Tabs               []Option `yaml:"tabs" json:"tabs"`
}

// LoadFormOptions parses the embedded option catalog.
func LoadFormOptions() (*FormOptions, error) {
	return ParseFormOptions(optionsYAML)
}

// ParseFormOptions parses an option catalog document.
func ParseFormOptions(data []byte) (*FormOptions, error) {
	var opts FormOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parse form options: %w", err)
	}
	if len(opts.Categories) == 0 {
		return nil, fmt.Errorf("parse form options: no categories")
	}
	for _, set := range [][]Option{opts.Categories, opts.EnvironmentPresets, opts.FeatureIcons, opts.Tabs} {
		seen := make(map[string]struct{}, len(set))
		for _, o := range set {
			if o.Value == "" {
				return nil, fmt.Errorf("parse form options: empty value (label %q)", o.Label)
			}
			if _, dup := seen[o.Value]; dup {
				return nil, fmt.Errorf("parse form options: duplicate value %q", o.Value)
			}
			seen[o.Value] = struct{}{}
		}
	}
	return &opts, nil
}

// HasCategory reports whether v is a known category.
func (o *FormOptions) HasCategory(v string) bool { return contains(o.Categories, v) }

// HasEnvironmentPreset reports whether v is a known 3D environment preset.
func (o *FormOptions) HasEnvironmentPreset(v string) bool { return contains(o.EnvironmentPresets, v) }

// HasFeatureIcon reports whether v is a known feature icon.
func (o *FormOptions) HasFeatureIcon(v string) bool { return contains(o.FeatureIcons, v) }

func contains(set []Option, v string) bool {
	for _, o := range set {
		if o.Value == v {
			return true
		}
	}
	return false
}
