package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"carenet/internal/domain"

	"github.com/qri-io/jsonschema"
)

const maxSkills = 50

var experienceSchema = mustSchema(`{
	"type": "array",
	"maxItems": 30,
	"items": {
		"type": "object",
		"required": ["title", "company"],
		"properties": {
			"title": {"type": "string", "minLength": 1, "maxLength": 200},
			"company": {"type": "string", "minLength": 1, "maxLength": 200},
			"startDate": {"type": "string", "maxLength": 20},
			"endDate": {"type": "string", "maxLength": 20},
			"current": {"type": "boolean"},
			"description": {"type": "string", "maxLength": 2000}
		}
	}
}`)

var educationSchema = mustSchema(`{
	"type": "array",
	"maxItems": 30,
	"items": {
		"type": "object",
		"required": ["school", "degree"],
		"properties": {
			"school": {"type": "string", "minLength": 1, "maxLength": 200},
			"degree": {"type": "string", "minLength": 1, "maxLength": 200},
			"field": {"type": "string", "maxLength": 200},
			"startYear": {"type": "string", "maxLength": 4},
			"endYear": {"type": "string", "maxLength": 4}
		}
	}
}`)

func mustSchema(raw string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(raw), rs); err != nil {
		panic(fmt.Sprintf("profile schema: %v", err))
	}
	return rs
}

// ValidateExperience checks raw experience JSON against the stored list shape.
func ValidateExperience(ctx context.Context, raw []byte) ([]Experience, error) {
	if err := validateList(ctx, experienceSchema, "experience", raw); err != nil {
		return nil, err
	}
	var out []Experience
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, domain.NewValidationError("experience", "must be a list")
	}
	for i := range out {
		out[i].Title = strings.TrimSpace(out[i].Title)
		out[i].Company = strings.TrimSpace(out[i].Company)
		if out[i].Current {
			out[i].EndDate = ""
		}
	}
	return out, nil
}

func ValidateEducation(ctx context.Context, raw []byte) ([]Education, error) {
	if err := validateList(ctx, educationSchema, "education", raw); err != nil {
		return nil, err
	}
	var out []Education
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, domain.NewValidationError("education", "must be a list")
	}
	for i := range out {
		out[i].School = strings.TrimSpace(out[i].School)
		out[i].Degree = strings.TrimSpace(out[i].Degree)
	}
	return out, nil
}

func validateList(ctx context.Context, schema *jsonschema.Schema, field string, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	keyErrs, err := schema.ValidateBytes(ctx, raw)
	if err != nil {
		return domain.NewValidationError(field, "must be valid JSON")
	}
	if len(keyErrs) > 0 {
		ke := keyErrs[0]
		msg := ke.Message
		if ke.PropertyPath != "" && ke.PropertyPath != "/" {
			msg = ke.PropertyPath + " " + msg
		}
		return domain.NewValidationError(field, msg)
	}
	return nil
}

// NormalizeSkills trims, drops blanks and duplicates while keeping the first spelling.
func NormalizeSkills(skills []string) ([]string, error) {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	if len(out) > maxSkills {
		return nil, domain.NewValidationError("skills", fmt.Sprintf("at most %d skills", maxSkills))
	}
	return out, nil
}
