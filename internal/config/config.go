// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hotword-scan/internal/finders"
	"hotword-scan/internal/hotword"
	"hotword-scan/internal/inspect"
	"hotword-scan/internal/likelihood"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values
const (
	EnvProject       = "HOTWORD_PROJECT"
	EnvFormat        = "HOTWORD_FORMAT"
	EnvMinLikelihood = "HOTWORD_MIN_LIKELIHOOD"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Project       string           `yaml:"project"`
		Format        string           `yaml:"format"`
		MinLikelihood likelihood.Level `yaml:"min_likelihood"`
		IncludeQuote  bool             `yaml:"include_quote"`
		MaxFindings   int              `yaml:"max_findings"`
		Combination   string           `yaml:"combination"`
		NoColor       bool             `yaml:"no_color"`
		Debug         bool             `yaml:"debug"`
	} `yaml:"defaults"`

	// Info types to inspect for
	InfoTypes []string `yaml:"info_types"`

	// Hotword rules grouped by the info types they apply to
	RuleSet []InspectionRuleSet `yaml:"rule_set"`

	// Profiles for different inspection scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// InspectionRuleSet groups rules that apply to the same info types.
// An empty InfoTypes list applies the rules to every info type.
type InspectionRuleSet struct {
	InfoTypes []string         `yaml:"info_types"`
	Rules     []InspectionRule `yaml:"rules"`
}

// InspectionRule wraps a single rule of a rule set
type InspectionRule struct {
	HotwordRule *HotwordRule `yaml:"hotword_rule"`
}

// HotwordRule is the file representation of a hotword.Rule
type HotwordRule struct {
	HotwordRegex struct {
		Pattern string `yaml:"pattern"`
	} `yaml:"hotword_regex"`
	Proximity struct {
		WindowBefore int `yaml:"window_before"`
		WindowAfter  int `yaml:"window_after"`
	} `yaml:"proximity"`
	LikelihoodAdjustment struct {
		FixedLikelihood    *likelihood.Level `yaml:"fixed_likelihood"`
		RelativeLikelihood *int              `yaml:"relative_likelihood"`
	} `yaml:"likelihood_adjustment"`
}

// Profile overrides the defaults for a named inspection scenario. Zero
// values inherit from the top-level configuration.
type Profile struct {
	Description   string              `yaml:"description"`
	MinLikelihood likelihood.Level    `yaml:"min_likelihood"`
	Combination   string              `yaml:"combination"`
	InfoTypes     []string            `yaml:"info_types"`
	RuleSet       []InspectionRuleSet `yaml:"rule_set"`
}

// Default returns the configuration used when no file is present. Environment
// overrides are not applied.
func Default() *Config {
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	// Set default values
	config.Defaults.Format = "text"
	config.Defaults.MinLikelihood = likelihood.Possible
	config.Defaults.IncludeQuote = true
	config.Defaults.MaxFindings = 0
	config.Defaults.Combination = hotword.Sequential.String()
	config.InfoTypes = []string{finders.PersonName}

	config.Profiles["strict"] = Profile{
		Description:   "Only report findings that are at least likely",
		MinLikelihood: likelihood.Likely,
	}
	return config
}

// LoadConfig loads configuration from the specified file path. Environment
// overrides are applied on top of the file.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		cleanPath := filepath.Clean(configPath)
		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
		if config.Profiles == nil {
			config.Profiles = make(map[string]Profile)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadEnv loads environment variables from .env files. Missing files are
// ignored and variables already set in the process are kept.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func applyEnvOverrides(config *Config) error {
	if project := os.Getenv(EnvProject); project != "" {
		config.Defaults.Project = project
	}
	if format := os.Getenv(EnvFormat); format != "" {
		config.Defaults.Format = format
	}
	if level := os.Getenv(EnvMinLikelihood); level != "" {
		parsed, err := likelihood.Parse(level)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMinLikelihood, err)
		}
		config.Defaults.MinLikelihood = parsed
	}
	return nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	for _, name := range []string{"hotword.yaml", "hotword.yml", ".hotword-scan.yaml", ".hotword-scan.yml"} {
		if fileExists(name) {
			return name
		}
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		configFile := filepath.Join(xdgConfig, "hotword-scan", name)
		if fileExists(configFile) {
			return configFile
		}
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the available profile names in sorted order
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// Rules flattens the top-level rule set into engine rules, in file order
func (c *Config) Rules() ([]hotword.Rule, error) {
	return flattenRuleSet(c.RuleSet)
}

// flattenRuleSet converts rule sets into engine rules. Rule indexes count
// across all rule sets, the same way the engine numbers them.
func flattenRuleSet(ruleSets []InspectionRuleSet) ([]hotword.Rule, error) {
	var rules []hotword.Rule
	for _, set := range ruleSets {
		for _, entry := range set.Rules {
			index := len(rules)
			if entry.HotwordRule == nil {
				return nil, hotword.NewConfigurationError(index, "hotword_rule", "only hotword rules are supported", nil)
			}
			adjustment, err := entry.HotwordRule.adjustment(index)
			if err != nil {
				return nil, err
			}
			rules = append(rules, hotword.Rule{
				AppliesTo:    append([]string(nil), set.InfoTypes...),
				Pattern:      entry.HotwordRule.HotwordRegex.Pattern,
				WindowBefore: entry.HotwordRule.Proximity.WindowBefore,
				WindowAfter:  entry.HotwordRule.Proximity.WindowAfter,
				Adjustment:   adjustment,
			})
		}
	}
	return rules, nil
}

func (r *HotwordRule) adjustment(index int) (hotword.Adjustment, error) {
	fixed := r.LikelihoodAdjustment.FixedLikelihood
	relative := r.LikelihoodAdjustment.RelativeLikelihood
	switch {
	case fixed != nil && relative != nil:
		return nil, hotword.NewConfigurationError(index, "likelihood_adjustment", "set only one of fixed_likelihood or relative_likelihood", nil)
	case fixed != nil:
		return hotword.Fixed{Level: *fixed}, nil
	case relative != nil:
		return hotword.Relative{Steps: *relative}, nil
	default:
		return nil, hotword.NewConfigurationError(index, "likelihood_adjustment", "one of fixed_likelihood or relative_likelihood is required", nil)
	}
}

// InspectConfig builds the inspector configuration, applying the named
// profile on top of the defaults. An empty profile name uses the defaults.
func (c *Config) InspectConfig(profileName string) (inspect.Config, error) {
	combination, err := hotword.ParseCombination(c.Defaults.Combination)
	if err != nil {
		return inspect.Config{}, err
	}
	rules, err := c.Rules()
	if err != nil {
		return inspect.Config{}, err
	}

	cfg := inspect.Config{
		InfoTypes:     append([]string(nil), c.InfoTypes...),
		RuleSet:       rules,
		MinLikelihood: c.Defaults.MinLikelihood,
		IncludeQuote:  c.Defaults.IncludeQuote,
		MaxFindings:   c.Defaults.MaxFindings,
		Combination:   combination,
	}

	if profileName == "" {
		return cfg, nil
	}
	profile := c.GetProfile(profileName)
	if profile == nil {
		return inspect.Config{}, fmt.Errorf("profile %q not found. Available profiles: %s", profileName, strings.Join(c.ListProfiles(), ", "))
	}

	if profile.MinLikelihood != 0 {
		cfg.MinLikelihood = profile.MinLikelihood
	}
	if profile.Combination != "" {
		if cfg.Combination, err = hotword.ParseCombination(profile.Combination); err != nil {
			return inspect.Config{}, fmt.Errorf("profile %q: %w", profileName, err)
		}
	}
	if len(profile.InfoTypes) > 0 {
		cfg.InfoTypes = append([]string(nil), profile.InfoTypes...)
	}
	if len(profile.RuleSet) > 0 {
		if cfg.RuleSet, err = flattenRuleSet(profile.RuleSet); err != nil {
			return inspect.Config{}, fmt.Errorf("profile %q: %w", profileName, err)
		}
	}
	return cfg, nil
}

// ValidateConfig checks the values that can be checked without inspecting
// anything. Rule sets are compiled so bad patterns surface at load time.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if !config.Defaults.MinLikelihood.Valid() {
		return fmt.Errorf("invalid min_likelihood %s", config.Defaults.MinLikelihood)
	}
	if config.Defaults.MaxFindings < 0 {
		return fmt.Errorf("max_findings must not be negative, got %d", config.Defaults.MaxFindings)
	}
	if _, err := hotword.ParseCombination(config.Defaults.Combination); err != nil {
		return err
	}
	if err := validateRuleSet(config.RuleSet); err != nil {
		return fmt.Errorf("rule_set: %w", err)
	}

	for _, name := range config.ListProfiles() {
		profile := config.Profiles[name]
		if profile.MinLikelihood != 0 && !profile.MinLikelihood.Valid() {
			return fmt.Errorf("profile %q: invalid min_likelihood %s", name, profile.MinLikelihood)
		}
		if _, err := hotword.ParseCombination(profile.Combination); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
		if err := validateRuleSet(profile.RuleSet); err != nil {
			return fmt.Errorf("profile %q: rule_set: %w", name, err)
		}
	}

	return nil
}

func validateRuleSet(ruleSets []InspectionRuleSet) error {
	rules, err := flattenRuleSet(ruleSets)
	if err != nil {
		return err
	}
	_, err = hotword.NewEngine(rules)
	return err
}

// Load loads configFile, or the first file FindConfigFile finds when
// configFile is empty. Defaults are used only when no file exists; a file
// that cannot be read, parsed or validated is an error.
func Load(configFile string) (*Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		if configPath != "" {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}
		return nil, err
	}
	return cfg, nil
}
