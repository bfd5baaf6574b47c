package repository

import (
	"context"

	"github.com/arrautomation001-cmd/ARRAutomation/internal/domain"
)

// AccountRepository exposes persistence for registered accounts.
//
// Insert must enforce the mobile/email uniqueness constraint at the
// store level: when two writers race on the same key, at most one
// insert succeeds and the loser gets domain.ErrConflict. Callers may
// use FindByKeys as an early exit, never as the sole safeguard.
type AccountRepository interface {
	Insert(ctx context.Context, account domain.Account) (domain.Account, error)
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
	FindByKeys(ctx context.Context, mobile, email string) (domain.Account, error)
}

// InquiryRepository stores contact-form submissions. Inserts always
// succeed for valid input; inquiries carry no uniqueness constraint.
type InquiryRepository interface {
	Insert(ctx context.Context, inquiry domain.Inquiry) (domain.Inquiry, error)
}
