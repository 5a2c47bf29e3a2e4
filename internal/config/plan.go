package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Plan declares which skills an assessment run covers and how question text
// for each skill should be rendered.
type Plan struct {
	Skills           []string          `yaml:"skills"`
	DefaultSeniority string            `yaml:"default_seniority"`
	Languages        map[string]string `yaml:"languages"`
}

// LoadPlan reads and validates an assessment plan from a YAML file.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan: %w", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return Plan{}, fmt.Errorf("parse plan: %w", err)
	}

	if len(plan.Skills) == 0 {
		return Plan{}, fmt.Errorf("plan %s declares no skills", path)
	}
	seen := make(map[string]struct{}, len(plan.Skills))
	for _, skill := range plan.Skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return Plan{}, fmt.Errorf("plan %s contains an empty skill name", path)
		}
		if _, dup := seen[skill]; dup {
			return Plan{}, fmt.Errorf("plan %s lists skill %q twice", path, skill)
		}
		seen[skill] = struct{}{}
	}

	return plan, nil
}

// Language returns the syntax-highlighting language configured for a skill,
// falling back to the skill name itself.
func (p Plan) Language(skill string) string {
	if lang, ok := p.Languages[skill]; ok {
		return lang
	}
	return skill
}
