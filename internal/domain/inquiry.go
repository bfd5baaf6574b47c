package domain

import "time"

// DefaultService is recorded when a contact submission names no service.
const DefaultService = "General"

// Inquiry is a contact-form submission. Inquiries are append-only and
// carry no uniqueness constraint.
type Inquiry struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Service   string
	Message   string
	CreatedAt time.Time
}
