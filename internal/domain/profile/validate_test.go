package profile

import (
	"context"
	"errors"
	"testing"

	"carenet/internal/domain"
)

func TestValidateExperience_Valid(t *testing.T) {
	raw := []byte(`[{"title":" Resident ","company":"City Hospital","startDate":"2020-01","endDate":"2021-01","current":true}]`)
	out, err := ValidateExperience(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 1 || out[0].Title != "Resident" {
		t.Fatalf("unexpected experience %+v", out)
	}
	if out[0].EndDate != "" {
		t.Fatalf("current role should drop end date")
	}
}

func TestValidateExperience_MissingCompany(t *testing.T) {
	raw := []byte(`[{"title":"Resident"}]`)
	_, err := ValidateExperience(context.Background(), raw)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "experience" {
		t.Fatalf("expected experience validation error, got %v", err)
	}
}

func TestValidateEducation_WrongType(t *testing.T) {
	raw := []byte(`{"school":"Med School"}`)
	if _, err := ValidateEducation(context.Background(), raw); err == nil {
		t.Fatalf("expected error for non-list education")
	}
}

func TestValidateEducation_Empty(t *testing.T) {
	out, err := ValidateEducation(context.Background(), nil)
	if err != nil || out != nil {
		t.Fatalf("expected nil list and no error, got %v %v", out, err)
	}
}

func TestNormalizeSkills(t *testing.T) {
	out, err := NormalizeSkills([]string{" ICU ", "icu", "", "Triage"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 2 || out[0] != "ICU" || out[1] != "Triage" {
		t.Fatalf("unexpected skills %v", out)
	}
}
