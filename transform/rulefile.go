package transform

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"exifimage/types"
)

// RuleFile is the YAML document used to import and export a user's rules
type RuleFile struct {
	Username string                      `yaml:"username"`
	Rules    []types.TransformationRule  `yaml:"rules,omitempty"`
	Defaults []types.DefaultValue        `yaml:"defaults,omitempty"`
	Setups   []types.TransformationSetup `yaml:"setups,omitempty"`
}

// LoadRuleFile reads and validates a rule file from disk
func LoadRuleFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	return ParseRuleFile(data)
}

// ParseRuleFile decodes a rule file and normalizes every entry
func ParseRuleFile(data []byte) (*RuleFile, error) {
	var f RuleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rule file: %w", err)
	}

	for i, r := range f.Rules {
		n, err := types.NormalizeRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		f.Rules[i] = n
	}
	for i, d := range f.Defaults {
		n, err := types.NormalizeDefault(d)
		if err != nil {
			return nil, fmt.Errorf("default %d: %w", i+1, err)
		}
		f.Defaults[i] = n
	}
	for i, s := range f.Setups {
		n, err := types.NormalizeSetup(s)
		if err != nil {
			return nil, fmt.Errorf("setup %d: %w", i+1, err)
		}
		f.Setups[i] = n
	}

	return &f, nil
}

// Marshal encodes the snapshot as a rule file for username
func (s *Snapshot) Marshal(username string) ([]byte, error) {
	return yaml.Marshal(RuleFile{
		Username: username,
		Rules:    s.Rules,
		Defaults: s.Defaults,
		Setups:   s.Setups,
	})
}
