// Package domain defines the CRM record types and their validation rules.
package domain

import (
	"regexp"
	"strings"
	"time"

	crmerrors "github.com/copperline/copperline/internal/errors"
)

// phonePattern accepts digits, dashes, parentheses, and spaces with an
// optional leading plus, e.g. +1234567890 or 123-456-7890.
var phonePattern = regexp.MustCompile(`^\+?[\d\-()\s]+$`)

// emailPattern is a light structural check; full address verification is
// out of scope.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Customer is a CRM customer record.
type Customer struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateCustomerInput describes the fields needed to create a customer.
type CreateCustomerInput struct {
	Name  string
	Email string
	Phone string
}

// NormalizeCreateCustomerInput trims whitespace from customer input.
func NormalizeCreateCustomerInput(input CreateCustomerInput) CreateCustomerInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	return input
}

// ValidateCreateCustomer returns every field error in the input. Email
// uniqueness is a storage concern and checked by the service layer.
func ValidateCreateCustomer(input CreateCustomerInput) []*crmerrors.Error {
	var errs []*crmerrors.Error
	if input.Name == "" {
		errs = append(errs, crmerrors.NewField(crmerrors.CodeCustomerNameRequired, "name", "customer name is required"))
	}
	if input.Email == "" {
		errs = append(errs, crmerrors.NewField(crmerrors.CodeCustomerEmailRequired, "email", "customer email is required"))
	} else if !ValidEmail(input.Email) {
		errs = append(errs, crmerrors.NewField(crmerrors.CodeCustomerEmailInvalid, "email", "customer email is invalid"))
	}
	if input.Phone != "" && !ValidPhone(input.Phone) {
		errs = append(errs, crmerrors.NewField(crmerrors.CodeCustomerPhoneInvalid, "phone", "customer phone format is invalid"))
	}
	return errs
}

// ValidPhone reports whether phone matches the accepted format. Empty
// phones are valid because the field is optional.
func ValidPhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phone)
}

// ValidEmail reports whether email has the shape of an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
