// Package config loads engine configuration from YAML files and assembles
// the components a comparison run needs. Every loader has a built-in
// default so the engine runs with no configuration at all.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/trendops/trendpulse/pkg/trendpulse/alias"
	"github.com/trendops/trendpulse/pkg/trendpulse/cluster"
	"github.com/trendops/trendpulse/pkg/trendpulse/themes"
)

// Options are the tunable knobs of a comparison run. Out-of-range values
// are clamped downstream, never rejected.
type Options struct {
	WindowDays          int     `yaml:"window_days"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MaxClusters         int     `yaml:"max_clusters"`
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		WindowDays:          7,
		SimilarityThreshold: cluster.DefaultSimilarityThreshold,
		MaxClusters:         cluster.DefaultMaxClusters,
	}
}

// ClusterConfig converts the options into the clusterer's config.
func (o Options) ClusterConfig() cluster.Config {
	return cluster.Config{
		SimilarityThreshold: o.SimilarityThreshold,
		MaxClusters:         o.MaxClusters,
	}
}

// LoadOptions loads options from a YAML file. Fields absent from the file
// keep their defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return DefaultOptions(), err
	}
	if opts.WindowDays == 0 {
		opts.WindowDays = DefaultOptions().WindowDays
	}
	return opts, nil
}

// ThemeConfig is the YAML shape for theme dictionaries.
type ThemeConfig struct {
	Themes []themes.Dictionary `yaml:"themes"`
}

// LoadThemeDicts loads theme keyword dictionaries from a YAML file.
//
// Expected format:
//
//	themes:
//	  - theme: crypto
//	    keywords: [bitcoin, 比特币, blockchain]
func LoadThemeDicts(path string) ([]themes.Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg ThemeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return cfg.Themes, nil
}

// Loader loads all configuration files and constructs components.
// Empty paths fall back to the built-in defaults.
type Loader struct {
	AliasPath   string
	ThemesPath  string
	OptionsPath string
}

// Components holds the constructed configuration components.
type Components struct {
	Matcher *alias.Matcher
	Tagger  *themes.Tagger
	Options Options
}

// Load reads the configured files and returns initialized components.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Options: DefaultOptions()}

	if l.AliasPath != "" {
		m, err := alias.LoadFromYAML(l.AliasPath)
		if err != nil {
			return nil, fmt.Errorf("load alias rules: %w", err)
		}
		comp.Matcher = m
	} else {
		comp.Matcher = alias.NewDefaultMatcher()
	}

	if l.ThemesPath != "" {
		dicts, err := LoadThemeDicts(l.ThemesPath)
		if err != nil {
			return nil, fmt.Errorf("load theme dictionaries: %w", err)
		}
		comp.Tagger = themes.NewTagger()
		for _, d := range dicts {
			comp.Tagger.AddTheme(d.Theme, d.Keywords)
		}
	} else {
		comp.Tagger = themes.NewDefaultTagger()
	}

	if l.OptionsPath != "" {
		opts, err := LoadOptions(l.OptionsPath)
		if err != nil {
			return nil, fmt.Errorf("load options: %w", err)
		}
		comp.Options = opts
	}

	return comp, nil
}
