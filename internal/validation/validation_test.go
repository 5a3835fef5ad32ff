package validation

import (
	"errors"
	"testing"

	"github.com/hitoshi/usersapi/internal/model"
)

func strPtr(s string) *string { return &s }

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.Error, got %v", err)
	}
	var names []string
	for _, f := range verr.Fields() {
		names = append(names, f.Field)
	}
	return names
}

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name       string
		in         model.CreateUserInput
		wantFields []string
	}{
		{
			name: "valid",
			in:   model.CreateUserInput{Email: "x@y.com", FirstName: "A", LastName: "B"},
		},
		{
			name:       "invalid email",
			in:         model.CreateUserInput{Email: "not-an-email", FirstName: "A", LastName: "B"},
			wantFields: []string{"email"},
		},
		{
			name:       "blank first name",
			in:         model.CreateUserInput{Email: "x@y.com", FirstName: "   ", LastName: "B"},
			wantFields: []string{"firstName"},
		},
		{
			name:       "all missing reports every field",
			in:         model.CreateUserInput{},
			wantFields: []string{"email", "firstName", "lastName"},
		},
		{
			name:       "single letter top-level domain",
			in:         model.CreateUserInput{Email: "a@b.c", FirstName: "A", LastName: "B"},
			wantFields: []string{"email"},
		},
		{
			name:       "domain without top-level domain",
			in:         model.CreateUserInput{Email: "a@b", FirstName: "A", LastName: "B"},
			wantFields: []string{"email"},
		},
		{
			name: "two letter top-level domain",
			in:   model.CreateUserInput{Email: "a@b.io", FirstName: "A", LastName: "B"},
		},
		{
			name:       "email with surrounding spaces",
			in:         model.CreateUserInput{Email: " x@y.com ", FirstName: "A", LastName: "B"},
			wantFields: []string{"email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreate(tt.in)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			got := fieldNames(t, err)
			if len(got) != len(tt.wantFields) {
				t.Fatalf("fields = %v, want %v", got, tt.wantFields)
			}
			for i := range got {
				if got[i] != tt.wantFields[i] {
					t.Errorf("fields[%d] = %q, want %q", i, got[i], tt.wantFields[i])
				}
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	tests := []struct {
		name       string
		in         model.UpdateUserInput
		wantFields []string
	}{
		{name: "empty input", in: model.UpdateUserInput{}},
		{name: "valid subset", in: model.UpdateUserInput{LastName: strPtr("Smith")}},
		{
			name:       "provided empty first name",
			in:         model.UpdateUserInput{FirstName: strPtr("")},
			wantFields: []string{"firstName"},
		},
		{
			name:       "bad email and empty last name",
			in:         model.UpdateUserInput{Email: strPtr("nope"), LastName: strPtr("")},
			wantFields: []string{"email", "lastName"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpdate(tt.in)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			got := fieldNames(t, err)
			if len(got) != len(tt.wantFields) {
				t.Fatalf("fields = %v, want %v", got, tt.wantFields)
			}
			for i := range got {
				if got[i] != tt.wantFields[i] {
					t.Errorf("fields[%d] = %q, want %q", i, got[i], tt.wantFields[i])
				}
			}
		})
	}
}

func TestError_UnwrapExposesFieldErrors(t *testing.T) {
	err := ValidateCreate(model.CreateUserInput{Email: "bad"})

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("errors.As should find a *FieldError in %v", err)
	}
	if fe.Field != "email" {
		t.Errorf("first field = %q, want %q", fe.Field, "email")
	}
}
