package domain

import "time"

// Account is a registered site user, keyed by mobile and email.
// No two accounts may share a mobile number or an email address.
type Account struct {
	ID             string
	Name           string
	Mobile         string
	Email          string
	CredentialHash string
	CreatedAt      time.Time
}
