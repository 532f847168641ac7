package model

import (
	"encoding/json"
	"fmt"

	"github.com/deppfellow/registration-service/internal/validation"
)

// Registration is the record created for every accepted sign-up.
// It is written once and never read back, updated or deleted by this service.
type Registration struct {
	// ID is assigned by the store on save (row id or ObjectID hex).
	ID string `json:"id,omitempty"`

	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Country      string `json:"country"`
	MobileNumber string `json:"mobileNumber"`

	// Optional location fields; nil means the client did not send them.
	Province *string `json:"province,omitempty"`
	City     *string `json:"city,omitempty"`
	Postcode *string `json:"postcode,omitempty"`

	Involvement string      `json:"involvement"`
	Specialties Specialties `json:"specialties"`
	Referral    string      `json:"referral"`
}

// RegisterRequest is the body of POST /api/register.
//
// Specialties stays raw until validation has confirmed it is an array of
// strings, so a scalar value is reported as a field error rather than
// aborting the whole decode.
//
// Required strings are checked for emptiness only; whitespace-only values pass.
type RegisterRequest struct {
	Email        string          `json:"email" validate:"required,email,email_domain"`
	FirstName    string          `json:"firstName" validate:"required"`
	LastName     string          `json:"lastName" validate:"required"`
	Country      string          `json:"country" validate:"required"`
	MobileNumber string          `json:"mobileNumber" validate:"required"`
	Province     *string         `json:"province"`
	City         *string         `json:"city"`
	Postcode     *string         `json:"postcode"`
	Involvement  string          `json:"involvement" validate:"required"`
	Specialties  json.RawMessage `json:"specialties" validate:"required,string_array"`
	Referral     string          `json:"referral" validate:"required"`
}

// Validate runs every rule and reports all failing fields together.
func (r *RegisterRequest) Validate() error {
	return validation.Struct(r)
}

// ToRegistration builds the normalized record. Call only after Validate succeeded.
func (r *RegisterRequest) ToRegistration() (*Registration, error) {
	specialties, err := DecodeSpecialties(string(r.Specialties))
	if err != nil {
		return nil, fmt.Errorf("normalize registration: %w", err)
	}

	return &Registration{
		Email:        r.Email,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Country:      r.Country,
		MobileNumber: r.MobileNumber,
		Province:     r.Province,
		City:         r.City,
		Postcode:     r.Postcode,
		Involvement:  r.Involvement,
		Specialties:  specialties,
		Referral:     r.Referral,
	}, nil
}
