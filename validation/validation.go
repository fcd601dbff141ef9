// Package validation checks decoded form fields against simple rule
// lists, e.g. {"title": {"required", "max:255"}}.
package validation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Violations struct {
	Errors map[string][]error
}

func (violations Violations) MarshalJSON() ([]byte, error) {
	errors := make(map[string][]string)
	for fieldName, fieldErrors := range violations.Errors {
		errors[fieldName] = make([]string, len(fieldErrors))
		for index, fieldError := range fieldErrors {
			errors[fieldName][index] = fieldError.Error()
		}
	}

	return json.Marshal(map[string]map[string][]string{
		"errors": errors,
	})
}

func (violations Violations) IsEmpty() bool {
	return len(violations.Errors) == 0
}

// ValidateFields checks every rule against its field. Fields without a
// rule entry pass untouched; a rule for an absent field only fails when
// the rule list contains "required".
func ValidateFields(fields map[string]string, rules map[string][]string) Violations {
	violations := Violations{Errors: make(map[string][]error)}

	for fieldName, fieldRules := range rules {
		value, present := fields[fieldName]

		var errorCollection []error
		for _, rule := range fieldRules {
			if err := validate(rule, fieldName, value, present); err != nil {
				errorCollection = append(errorCollection, err)
			}
		}

		if len(errorCollection) != 0 {
			violations.Errors[fieldName] = errorCollection
		}
	}

	return violations
}

func validate(rule, name, value string, present bool) error {
	ruleName, ruleArg, _ := strings.Cut(rule, ":")

	switch ruleName {
	case "required":
		if !present || value == "" {
			return fmt.Errorf("validation: %s is required", name)
		}
	case "min":
		limit, err := strconv.Atoi(ruleArg)
		if err != nil {
			return fmt.Errorf("validation: malformed rule %q for %s", rule, name)
		}
		if present && len(value) < limit {
			return fmt.Errorf("validation: %s must be at least %d characters", name, limit)
		}
	case "max":
		limit, err := strconv.Atoi(ruleArg)
		if err != nil {
			return fmt.Errorf("validation: malformed rule %q for %s", rule, name)
		}
		if present && len(value) > limit {
			return fmt.Errorf("validation: %s must be at most %d characters", name, limit)
		}
	case "numeric":
		if present {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return fmt.Errorf("validation: %s must be numeric", name)
			}
		}
	default:
		return fmt.Errorf("validation: unknown rule %q for %s", rule, name)
	}

	return nil
}
