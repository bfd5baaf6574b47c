package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/marshal"

	"github.com/arrautomation001-cmd/ARRAutomation/internal/domain"
)

// Compile-time interface assertions.
var (
	_ AccountRepository = (*SurrealAccountRepo)(nil)
	_ InquiryRepository = (*SurrealInquiryRepo)(nil)
)

const (
	accountTable = "account"
	inquiryTable = "inquiry"
)

type accountRecord struct {
	ID             string    `json:"id,omitempty"`
	Name           string    `json:"name"`
	Mobile         string    `json:"mobile"`
	Email          string    `json:"email"`
	CredentialHash string    `json:"credential_hash"`
	CreatedAt      time.Time `json:"created_at"`
}

type inquiryRecord struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Service   string    `json:"service"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// SurrealAccountRepo implements AccountRepository on SurrealDB. The
// unique indexes on account.email and account.mobile (defined by
// bootstrap.EnsureSchema) are the authoritative conflict check.
type SurrealAccountRepo struct {
	db *surrealdb.DB
}

func NewSurrealAccountRepo(db *surrealdb.DB) *SurrealAccountRepo {
	return &SurrealAccountRepo{db: db}
}

func (r *SurrealAccountRepo) Insert(ctx context.Context, account domain.Account) (domain.Account, error) {
	created, err := r.db.Create(recordID(accountTable, account.ID), map[string]any{
		"name":            account.Name,
		"mobile":          account.Mobile,
		"email":           account.Email,
		"credential_hash": account.CredentialHash,
		"created_at":      account.CreatedAt.UTC(),
	})
	if err != nil {
		if isUniqueIndexViolation(err) {
			return domain.Account{}, domain.ErrConflict
		}
		return domain.Account{}, fmt.Errorf("insert account: %w", err)
	}

	rows, err := marshal.SmartUnmarshal[accountRecord](created, nil)
	if err != nil || len(rows) == 0 {
		// Write was acknowledged; fall back to the candidate we sent.
		return account, nil
	}
	return accountFromRecord(rows[0]), nil
}

func (r *SurrealAccountRepo) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	rows, err := marshal.SmartUnmarshal[accountRecord](r.db.Query(
		"SELECT * FROM account WHERE email = $email LIMIT 1",
		map[string]any{"email": email},
	))
	if err != nil {
		return domain.Account{}, fmt.Errorf("find account by email: %w", err)
	}
	if len(rows) == 0 {
		return domain.Account{}, domain.ErrNotFound
	}
	return accountFromRecord(rows[0]), nil
}

func (r *SurrealAccountRepo) FindByKeys(ctx context.Context, mobile, email string) (domain.Account, error) {
	rows, err := marshal.SmartUnmarshal[accountRecord](r.db.Query(
		"SELECT * FROM account WHERE email = $email OR mobile = $mobile LIMIT 1",
		map[string]any{"email": email, "mobile": mobile},
	))
	if err != nil {
		return domain.Account{}, fmt.Errorf("find account by keys: %w", err)
	}
	if len(rows) == 0 {
		return domain.Account{}, domain.ErrNotFound
	}
	return accountFromRecord(rows[0]), nil
}

// SurrealInquiryRepo implements InquiryRepository on SurrealDB.
type SurrealInquiryRepo struct {
	db *surrealdb.DB
}

func NewSurrealInquiryRepo(db *surrealdb.DB) *SurrealInquiryRepo {
	return &SurrealInquiryRepo{db: db}
}

func (r *SurrealInquiryRepo) Insert(ctx context.Context, inquiry domain.Inquiry) (domain.Inquiry, error) {
	created, err := r.db.Create(recordID(inquiryTable, inquiry.ID), map[string]any{
		"name":       inquiry.Name,
		"email":      inquiry.Email,
		"phone":      inquiry.Phone,
		"service":    inquiry.Service,
		"message":    inquiry.Message,
		"created_at": inquiry.CreatedAt.UTC(),
	})
	if err != nil {
		return domain.Inquiry{}, fmt.Errorf("insert inquiry: %w", err)
	}

	rows, err := marshal.SmartUnmarshal[inquiryRecord](created, nil)
	if err != nil || len(rows) == 0 {
		return inquiry, nil
	}
	return inquiryFromRecord(rows[0]), nil
}

func recordID(table, id string) string {
	return table + ":" + id
}

// stripTable turns "account:123" into "123"; record IDs are opaque to callers.
func stripTable(id string) string {
	if _, rest, ok := strings.Cut(id, ":"); ok {
		return strings.Trim(rest, "⟨⟩")
	}
	return id
}

// isUniqueIndexViolation matches the SurrealDB error raised when a write
// hits a UNIQUE index that already contains the value, and nothing else:
// the message names the index ("Database index `...` already contains ...").
// A record-ID collision ("already exists") is a distinct failure and must
// surface as a storage error, not a conflict.
func isUniqueIndexViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "index") && strings.Contains(msg, "already contains")
}

func accountFromRecord(rec accountRecord) domain.Account {
	return domain.Account{
		ID:             stripTable(rec.ID),
		Name:           rec.Name,
		Mobile:         rec.Mobile,
		Email:          rec.Email,
		CredentialHash: rec.CredentialHash,
		CreatedAt:      rec.CreatedAt,
	}
}

func inquiryFromRecord(rec inquiryRecord) domain.Inquiry {
	return domain.Inquiry{
		ID:        stripTable(rec.ID),
		Name:      rec.Name,
		Email:     rec.Email,
		Phone:     rec.Phone,
		Service:   rec.Service,
		Message:   rec.Message,
		CreatedAt: rec.CreatedAt,
	}
}
