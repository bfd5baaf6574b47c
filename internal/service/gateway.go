// Package service implements the submission gateway: each operation is
// a short validate → persist → respond sequence, with notifications
// handed off after the write so they can never delay or fail the
// caller-visible outcome.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/arrautomation001-cmd/ARRAutomation/internal/domain"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/notify"
	pw "github.com/arrautomation001-cmd/ARRAutomation/internal/password"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/repository"
)

// RegisterInput is a signup payload before validation.
type RegisterInput struct {
	Name       string
	Mobile     string
	Email      string
	Credential string
}

// InquiryInput is a contact-form payload before validation.
type InquiryInput struct {
	Name    string
	Email   string
	Phone   string
	Service string
	Message string
}

// Gateway validates submissions, persists them, and enqueues
// notifications once the write is acknowledged.
type Gateway struct {
	accounts   repository.AccountRepository
	inquiries  repository.InquiryRepository
	dispatcher *notify.Dispatcher
	node       *snowflake.Node
	operator   string
	logger     *zap.Logger
	tracer     trace.Tracer
}

// NewGateway wires dependencies.
func NewGateway(accounts repository.AccountRepository, inquiries repository.InquiryRepository, dispatcher *notify.Dispatcher, node *snowflake.Node, operator string, logger *zap.Logger) *Gateway {
	return &Gateway{
		accounts:   accounts,
		inquiries:  inquiries,
		dispatcher: dispatcher,
		node:       node,
		operator:   operator,
		logger:     logger,
		tracer:     otel.Tracer("github.com/arrautomation001-cmd/ARRAutomation/internal/service"),
	}
}

// Register creates an account. The repository's unique indexes are the
// authoritative duplicate guard; the FindByKeys pre-check only lets us
// answer without attempting the write.
func (g *Gateway) Register(ctx context.Context, in RegisterInput) (domain.Account, error) {
	ctx, span := g.startSpan(ctx, "Gateway.Register")
	defer span.End()

	name := strings.TrimSpace(in.Name)
	mobile := strings.TrimSpace(in.Mobile)
	email := normalizeEmail(in.Email)
	if name == "" || mobile == "" || email == "" || strings.TrimSpace(in.Credential) == "" {
		return domain.Account{}, domain.ErrInvalidInput
	}

	if _, err := g.accounts.FindByKeys(ctx, mobile, email); err == nil {
		return domain.Account{}, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		return domain.Account{}, fmt.Errorf("check existing account: %w", err)
	}

	hash, err := pw.Hash(in.Credential)
	if err != nil {
		span.RecordError(err)
		return domain.Account{}, fmt.Errorf("hash credential: %w", err)
	}

	candidate := domain.Account{
		ID:             g.node.Generate().String(),
		Name:           name,
		Mobile:         mobile,
		Email:          email,
		CredentialHash: hash,
		CreatedAt:      time.Now().UTC(),
	}

	account, err := g.accounts.Insert(ctx, candidate)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Account{}, domain.ErrConflict
		}
		span.RecordError(err)
		return domain.Account{}, fmt.Errorf("insert account: %w", err)
	}

	g.audit("signup.success", "account_id", account.ID, "email", account.Email)

	// The write is final from here on. Both notifications are
	// independent best-effort sends.
	g.dispatcher.Enqueue(notify.Welcome(account))
	g.dispatcher.Enqueue(notify.SignupAlert(g.operator, account))

	return account, nil
}

// Login verifies a credential against the stored hash. The operator is
// notified in the background; the caller only sees the outcome.
func (g *Gateway) Login(ctx context.Context, email, credential string) (domain.Account, error) {
	ctx, span := g.startSpan(ctx, "Gateway.Login")
	defer span.End()

	normalized := normalizeEmail(email)
	if normalized == "" || credential == "" {
		return domain.Account{}, domain.ErrInvalidInput
	}

	account, err := g.accounts.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Account{}, domain.ErrNotFound
		}
		span.RecordError(err)
		return domain.Account{}, fmt.Errorf("find account: %w", err)
	}

	ok, err := pw.Verify(credential, account.CredentialHash)
	if err != nil || !ok {
		return domain.Account{}, domain.ErrInvalidCredential
	}

	g.audit("login.success", "account_id", account.ID, "email", account.Email)
	g.dispatcher.Enqueue(notify.LoginAlert(g.operator, account))

	return account, nil
}

// SubmitInquiry stores a contact submission unconditionally; there is
// no uniqueness check for inquiries.
func (g *Gateway) SubmitInquiry(ctx context.Context, in InquiryInput) (domain.Inquiry, error) {
	ctx, span := g.startSpan(ctx, "Gateway.SubmitInquiry")
	defer span.End()

	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	message := strings.TrimSpace(in.Message)
	if name == "" || email == "" || message == "" {
		return domain.Inquiry{}, domain.ErrInvalidInput
	}

	service := strings.TrimSpace(in.Service)
	if service == "" {
		service = domain.DefaultService
	}

	candidate := domain.Inquiry{
		ID:        g.node.Generate().String(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Service:   service,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	inquiry, err := g.inquiries.Insert(ctx, candidate)
	if err != nil {
		span.RecordError(err)
		return domain.Inquiry{}, fmt.Errorf("insert inquiry: %w", err)
	}

	g.audit("inquiry.received", "inquiry_id", inquiry.ID, "service", inquiry.Service)

	g.dispatcher.Enqueue(notify.InquiryAlert(g.operator, inquiry))
	g.dispatcher.Enqueue(notify.InquiryAck(inquiry))

	return inquiry, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (g *Gateway) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if g == nil || g.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return g.tracer.Start(ctx, name)
}

func (g *Gateway) audit(event string, attrs ...any) {
	logger := g.log()
	if logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}

func (g *Gateway) log() *zap.Logger {
	if g != nil && g.logger != nil {
		return g.logger
	}
	return zap.L()
}
