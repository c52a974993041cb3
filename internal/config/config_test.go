// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hotword-scan/internal/finders"
	"hotword-scan/internal/hotword"
	"hotword-scan/internal/likelihood"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "hotword.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Format != "text" {
		t.Errorf("expected default format=text, got %q", cfg.Defaults.Format)
	}
	if cfg.Defaults.MinLikelihood != likelihood.Possible {
		t.Errorf("expected default min_likelihood=POSSIBLE, got %s", cfg.Defaults.MinLikelihood)
	}
	if !cfg.Defaults.IncludeQuote {
		t.Error("expected include_quote=true by default")
	}
	if len(cfg.InfoTypes) != 1 || cfg.InfoTypes[0] != finders.PersonName {
		t.Errorf("expected default info types [PERSON_NAME], got %v", cfg.InfoTypes)
	}
	if _, ok := cfg.Profiles["strict"]; !ok {
		t.Error("expected 'strict' profile to exist in defaults")
	}
}

func TestLoadConfig_RuleSet(t *testing.T) {
	configPath := writeConfig(t, `
defaults:
  project: my-project
  format: json
  min_likelihood: likely
  combination: strongest
info_types: [PERSON_NAME, EMAIL_ADDRESS]
rule_set:
  - info_types: [PERSON_NAME]
    rules:
      - hotword_rule:
          hotword_regex: {pattern: patient}
          proximity: {window_before: 50}
          likelihood_adjustment: {fixed_likelihood: VERY_LIKELY}
  - rules:
      - hotword_rule:
          hotword_regex: {pattern: "(?i)test"}
          proximity: {window_before: 10, window_after: 10}
          likelihood_adjustment: {relative_likelihood: -2}
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Project != "my-project" || cfg.Defaults.Format != "json" {
		t.Errorf("unexpected defaults %+v", cfg.Defaults)
	}
	if !cfg.Defaults.IncludeQuote {
		t.Error("expected include_quote to keep its default when not set")
	}

	rules, err := cfg.Rules()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].Pattern != "patient" || rules[0].WindowBefore != 50 || rules[0].AppliesTo[0] != finders.PersonName {
		t.Errorf("unexpected first rule %+v", rules[0])
	}
	if fixed, ok := rules[0].Adjustment.(hotword.Fixed); !ok || fixed.Level != likelihood.VeryLikely {
		t.Errorf("expected fixed VERY_LIKELY, got %v", rules[0].Adjustment)
	}
	if len(rules[1].AppliesTo) != 0 || rules[1].WindowAfter != 10 {
		t.Errorf("unexpected second rule %+v", rules[1])
	}
	if relative, ok := rules[1].Adjustment.(hotword.Relative); !ok || relative.Steps != -2 {
		t.Errorf("expected relative -2, got %v", rules[1].Adjustment)
	}

	inspectCfg, err := cfg.InspectConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inspectCfg.Combination != hotword.Strongest || inspectCfg.MinLikelihood != likelihood.Likely {
		t.Errorf("unexpected inspect config %+v", inspectCfg)
	}
	if len(inspectCfg.InfoTypes) != 2 || len(inspectCfg.RuleSet) != 2 {
		t.Errorf("unexpected inspect config %+v", inspectCfg)
	}
}

func TestLoadConfig_RuleErrors(t *testing.T) {
	cases := []struct {
		name  string
		rules string
		field string
		index int
	}{
		{
			name: "both adjustments",
			rules: `
      - hotword_rule:
          hotword_regex: {pattern: a}
          likelihood_adjustment: {fixed_likelihood: LIKELY, relative_likelihood: 1}`,
			field: "likelihood_adjustment",
		},
		{
			name: "missing adjustment",
			rules: `
      - hotword_rule:
          hotword_regex: {pattern: a}`,
			field: "likelihood_adjustment",
		},
		{
			name: "bad pattern in second rule",
			rules: `
      - hotword_rule:
          hotword_regex: {pattern: a}
          likelihood_adjustment: {relative_likelihood: 1}
      - hotword_rule:
          hotword_regex: {pattern: "("}
          likelihood_adjustment: {relative_likelihood: 1}`,
			field: "pattern",
			index: 1,
		},
		{
			name: "negative window",
			rules: `
      - hotword_rule:
          hotword_regex: {pattern: a}
          proximity: {window_before: -1}
          likelihood_adjustment: {relative_likelihood: 1}`,
			field: "window_before",
		},
		{
			name:  "not a hotword rule",
			rules: "\n      - {}",
			field: "hotword_rule",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			configPath := writeConfig(t, "rule_set:\n  - rules:"+tc.rules+"\n")
			_, err := LoadConfig(configPath)
			var cfgErr *hotword.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if cfgErr.Field != tc.field || cfgErr.RuleIndex != tc.index {
				t.Errorf("expected rule %d field %q, got rule %d field %q", tc.index, tc.field, cfgErr.RuleIndex, cfgErr.Field)
			}
		})
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	for name, content := range map[string]string{
		"likelihood":   "defaults:\n  min_likelihood: SOMETIMES\n",
		"combination":  "defaults:\n  combination: weakest\n",
		"max findings": "defaults:\n  max_findings: -3\n",
		"profile":      "profiles:\n  loud:\n    combination: loudest\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvProject, "env-project")
	t.Setenv(EnvFormat, "yaml")
	t.Setenv(EnvMinLikelihood, "VERY_LIKELY")

	cfg, err := LoadConfig(writeConfig(t, "defaults:\n  project: file-project\n  format: json\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Project != "env-project" {
		t.Errorf("expected env project, got %q", cfg.Defaults.Project)
	}
	if cfg.Defaults.Format != "yaml" {
		t.Errorf("expected env format, got %q", cfg.Defaults.Format)
	}
	if cfg.Defaults.MinLikelihood != likelihood.VeryLikely {
		t.Errorf("expected env min likelihood, got %s", cfg.Defaults.MinLikelihood)
	}

	t.Setenv(EnvMinLikelihood, "often")
	if _, err := LoadConfig(""); err == nil || !strings.Contains(err.Error(), EnvMinLikelihood) {
		t.Errorf("expected env error, got %v", err)
	}
}

func TestLoadEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte(EnvProject+"=dotenv-project\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv(EnvProject, "")
	os.Unsetenv(EnvProject)

	LoadEnv(envFile)
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Project != "dotenv-project" {
		t.Errorf("expected project from .env, got %q", cfg.Defaults.Project)
	}

	// missing files are ignored
	LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
}

func TestInspectConfig_Profiles(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
profiles:
  emails:
    description: email addresses near contact labels
    info_types: [EMAIL_ADDRESS]
    combination: strongest
    rule_set:
      - rules:
          - hotword_rule:
              hotword_regex: {pattern: contact}
              proximity: {window_before: 20}
              likelihood_adjustment: {relative_likelihood: 1}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cfg.ListProfiles(); len(got) != 2 || got[0] != "emails" || got[1] != "strict" {
		t.Errorf("expected [emails strict], got %v", got)
	}

	strict, err := cfg.InspectConfig("strict")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strict.MinLikelihood != likelihood.Likely {
		t.Errorf("expected strict profile to raise min likelihood, got %s", strict.MinLikelihood)
	}

	emails, err := cfg.InspectConfig("emails")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emails.InfoTypes[0] != finders.EmailAddress || emails.Combination != hotword.Strongest || len(emails.RuleSet) != 1 {
		t.Errorf("unexpected profile config %+v", emails)
	}

	if _, err := cfg.InspectConfig("missing"); err == nil || !strings.Contains(err.Error(), "Available profiles") {
		t.Errorf("expected unknown profile error, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	// No config file anywhere means defaults
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Format != "text" {
		t.Errorf("expected default format, got %q", cfg.Defaults.Format)
	}

	cfg, err = Load(writeConfig(t, "defaults:\n  format: yaml\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Format != "yaml" {
		t.Errorf("expected format=yaml, got %q", cfg.Defaults.Format)
	}

	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected an error for a missing named config file")
	}
	if _, err := Load(writeConfig(t, ":::invalid yaml:::")); err == nil {
		t.Error("expected an error for invalid YAML")
	}
}

func TestLoad_InvalidRuleInFoundFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	bad := `
rule_set:
  - rules:
      - hotword_rule:
          hotword_regex: {pattern: "pat(ient"}
          likelihood_adjustment: {fixed_likelihood: VERY_LIKELY}
`
	if err := os.WriteFile(filepath.Join(dir, "hotword.yaml"), []byte(bad), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := Load("")
	var cfgErr *hotword.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "hotword.yaml") {
		t.Errorf("expected the file name in %q", err.Error())
	}
}

func TestFindConfigFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(t.TempDir())

	if got := FindConfigFile(); got != "" {
		t.Errorf("expected no config file, got %q", got)
	}

	xdgFile := filepath.Join(xdg, "hotword-scan", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(xdgFile), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xdgFile, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := FindConfigFile(); got != xdgFile {
		t.Errorf("expected %q, got %q", xdgFile, got)
	}

	if err := os.WriteFile(".hotword-scan.yaml", []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := FindConfigFile(); got != ".hotword-scan.yaml" {
		t.Errorf("expected project config to win, got %q", got)
	}
}
