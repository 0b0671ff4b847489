// Package rules provides conditional classification rules loaded from YAML.
//
// Rules let a profile place records that the built-in classifier cannot.
// For example, a library whose export files reports under Archive Location
// "Rapor" might add:
//
//	- name: reports
//	  when: {field: ArchiveLocation, contains: rapor}
//	  then: {category: ConferencePaper}
package rules

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleSet contains an ordered list of rules.
type RuleSet struct {
	// Name identifies this rule set
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Description documents what these rules are for
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Rules is the ordered list of rules
	Rules []Rule `yaml:"rules" json:"rules"`
}

// Rule defines a single conditional assignment.
type Rule struct {
	// Name identifies this rule for debugging/logging
	Name string `yaml:"name" json:"name"`

	// Description documents what this rule does
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Priority determines rule evaluation order (higher = first). Default is 0.
	Priority int `yaml:"priority,omitempty" json:"priority,omitempty"`

	// When defines the conditions that must be met for this rule to apply
	When Condition `yaml:"when" json:"when"`

	// Then defines the outcome when conditions are met
	Then Action `yaml:"then" json:"then"`
}

// Condition defines when a rule should be applied.
type Condition struct {
	// Field is the record field to check (e.g., "ItemType", "ArchiveLocation")
	Field string `yaml:"field,omitempty" json:"field,omitempty"`

	// Equals matches exact value, ignoring case
	Equals string `yaml:"equals,omitempty" json:"equals,omitempty"`

	// Contains matches if the field contains this substring, ignoring case
	Contains string `yaml:"contains,omitempty" json:"contains,omitempty"`

	// Matches is a regex pattern to match against
	Matches string `yaml:"matches,omitempty" json:"matches,omitempty"`

	// In matches if the field value is in this list
	In []string `yaml:"in,omitempty" json:"in,omitempty"`

	// Exists checks if the field has a non-empty value
	Exists *bool `yaml:"exists,omitempty" json:"exists,omitempty"`

	// All requires all sub-conditions to match (AND)
	All []Condition `yaml:"all,omitempty" json:"all,omitempty"`

	// Any requires at least one sub-condition to match (OR)
	Any []Condition `yaml:"any,omitempty" json:"any,omitempty"`

	// Not inverts the sub-condition
	Not *Condition `yaml:"not,omitempty" json:"not,omitempty"`
}

// Action defines the outcome of a matching rule.
type Action struct {
	// Category is the category identifier or display label to assign
	Category string `yaml:"category" json:"category"`
}

// Result holds the outcome of rule evaluation.
type Result struct {
	// Matched indicates if any rule matched
	Matched bool

	// RuleName is the name of the matched rule
	RuleName string

	// Category is the assigned category name
	Category string
}

// Sorted returns the rules by descending priority, keeping declaration
// order among equal priorities.
func (rs *RuleSet) Sorted() []Rule {
	out := append([]Rule(nil), rs.Rules...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// Evaluate checks the rules against the given field values and returns the
// first match. fieldValues maps record field names to their string values.
func (rs *RuleSet) Evaluate(fieldValues map[string]string) *Result {
	result := &Result{}
	if rs == nil {
		return result
	}

	for _, rule := range rs.Sorted() {
		if rule.When.Evaluate(fieldValues) {
			result.Matched = true
			result.RuleName = rule.Name
			result.Category = rule.Then.Category
			break
		}
	}

	return result
}

// Validate checks that every pattern compiles.
func (rs *RuleSet) Validate() error {
	for _, rule := range rs.Rules {
		if err := rule.When.validate(); err != nil {
			return fmt.Errorf("rule %q: %w", rule.Name, err)
		}
	}
	return nil
}

func (c *Condition) validate() error {
	if c.Matches != "" {
		if _, err := regexp.Compile(c.Matches); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", c.Matches, err)
		}
	}
	for _, sub := range append(append([]Condition(nil), c.All...), c.Any...) {
		if err := sub.validate(); err != nil {
			return err
		}
	}
	if c.Not != nil {
		return c.Not.validate()
	}
	return nil
}

// Evaluate checks if the condition matches the given field values.
func (c *Condition) Evaluate(fieldValues map[string]string) bool {
	// Handle composite conditions first
	if len(c.All) > 0 {
		for _, sub := range c.All {
			if !sub.Evaluate(fieldValues) {
				return false
			}
		}
		return true
	}

	if len(c.Any) > 0 {
		for _, sub := range c.Any {
			if sub.Evaluate(fieldValues) {
				return true
			}
		}
		return false
	}

	if c.Not != nil {
		return !c.Not.Evaluate(fieldValues)
	}

	// Simple field condition
	if c.Field == "" {
		return true // No condition means always match
	}

	value := strings.TrimSpace(fieldValues[c.Field])
	exists := value != ""

	// Check exists condition
	if c.Exists != nil {
		return exists == *c.Exists
	}

	if !exists {
		return false
	}

	// Check value conditions
	if c.Equals != "" {
		return strings.EqualFold(value, c.Equals)
	}

	if c.Contains != "" {
		return strings.Contains(strings.ToLower(value), strings.ToLower(c.Contains))
	}

	if c.Matches != "" {
		matched, _ := regexp.MatchString(c.Matches, value)
		return matched
	}

	if len(c.In) > 0 {
		for _, v := range c.In {
			if strings.EqualFold(value, v) {
				return true
			}
		}
		return false
	}

	// No specific condition, just check field exists
	return true
}

// LoadRuleSet loads a rule set from a YAML file.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	return LoadRuleSetFromBytes(data)
}

// LoadRuleSetFromBytes loads a rule set from YAML bytes.
func LoadRuleSetFromBytes(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing rules YAML: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}
