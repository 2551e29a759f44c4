package domain

import (
	"testing"

	crmerrors "github.com/copperline/copperline/internal/errors"
)

func TestValidPhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phone string
		want  bool
	}{
		{"", true},
		{"+1234567890", true},
		{"123-456-7890", true},
		{"(555) 123-4567", true},
		{"555 123 4567", true},
		{"abc", false},
		{"123@456", false},
	}

	for _, tt := range tests {
		if got := ValidPhone(tt.phone); got != tt.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"a.b+c@sub.example.org", true},
		{"", false},
		{"not-an-email", false},
		{"missing@tld", false},
		{"two@@example.com", false},
	}

	for _, tt := range tests {
		if got := ValidEmail(tt.email); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestValidateCreateCustomerAggregates(t *testing.T) {
	t.Parallel()

	errs := ValidateCreateCustomer(CreateCustomerInput{
		Name:  "",
		Email: "bad",
		Phone: "nope",
	})
	if len(errs) != 3 {
		t.Fatalf("ValidateCreateCustomer() returned %d errors, want 3", len(errs))
	}

	codes := map[crmerrors.Code]bool{}
	for _, err := range errs {
		codes[err.Code] = true
	}
	for _, want := range []crmerrors.Code{
		crmerrors.CodeCustomerNameRequired,
		crmerrors.CodeCustomerEmailInvalid,
		crmerrors.CodeCustomerPhoneInvalid,
	} {
		if !codes[want] {
			t.Errorf("missing code %s", want)
		}
	}
}

func TestValidateCreateCustomerEmptyEmail(t *testing.T) {
	t.Parallel()

	errs := ValidateCreateCustomer(CreateCustomerInput{Name: "Alice"})
	if len(errs) != 1 {
		t.Fatalf("ValidateCreateCustomer() returned %d errors, want 1", len(errs))
	}
	if errs[0].Code != crmerrors.CodeCustomerEmailRequired {
		t.Errorf("code = %s, want %s", errs[0].Code, crmerrors.CodeCustomerEmailRequired)
	}
}

func TestNormalizeCreateCustomerInput(t *testing.T) {
	t.Parallel()

	input := NormalizeCreateCustomerInput(CreateCustomerInput{
		Name:  "  Alice  ",
		Email: " alice@example.com ",
		Phone: " +1234567890 ",
	})
	if input.Name != "Alice" {
		t.Errorf("Name = %q, want %q", input.Name, "Alice")
	}
	if input.Email != "alice@example.com" {
		t.Errorf("Email = %q", input.Email)
	}
	if input.Phone != "+1234567890" {
		t.Errorf("Phone = %q", input.Phone)
	}
}
