package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arrautomation001-cmd/ARRAutomation/internal/adapter/mail"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/domain"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/notify"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/password"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/service"
)

const operatorAddr = "arrautomation001@gmail.com"

// memoryAccountRepo mimics the store's unique-index behaviour: the
// conflict check and the insert happen under one lock.
type memoryAccountRepo struct {
	mu       sync.Mutex
	accounts []domain.Account
}

func (m *memoryAccountRepo) Insert(ctx context.Context, account domain.Account) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Email == account.Email || existing.Mobile == account.Mobile {
			return domain.Account{}, domain.ErrConflict
		}
	}
	m.accounts = append(m.accounts, account)
	return account, nil
}

func (m *memoryAccountRepo) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Email == email {
			return existing, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (m *memoryAccountRepo) FindByKeys(ctx context.Context, mobile, email string) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Email == email || existing.Mobile == mobile {
			return existing, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (m *memoryAccountRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}

var errStoreDown = errors.New("connection reset by peer")

// brokenAccountRepo fails selected operations with a transport-style
// error, standing in for a database outage.
type brokenAccountRepo struct {
	findErr   error
	insertErr error
}

func (b *brokenAccountRepo) Insert(ctx context.Context, account domain.Account) (domain.Account, error) {
	if b.insertErr != nil {
		return domain.Account{}, b.insertErr
	}
	return account, nil
}

func (b *brokenAccountRepo) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	if b.findErr != nil {
		return domain.Account{}, b.findErr
	}
	return domain.Account{}, domain.ErrNotFound
}

func (b *brokenAccountRepo) FindByKeys(ctx context.Context, mobile, email string) (domain.Account, error) {
	if b.findErr != nil {
		return domain.Account{}, b.findErr
	}
	return domain.Account{}, domain.ErrNotFound
}

type brokenInquiryRepo struct {
	insertErr error
}

func (b *brokenInquiryRepo) Insert(ctx context.Context, inquiry domain.Inquiry) (domain.Inquiry, error) {
	return domain.Inquiry{}, b.insertErr
}

type memoryInquiryRepo struct {
	mu        sync.Mutex
	inquiries []domain.Inquiry
}

func (m *memoryInquiryRepo) Insert(ctx context.Context, inquiry domain.Inquiry) (domain.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inquiries = append(m.inquiries, inquiry)
	return inquiry, nil
}

// recordingMailer captures sent messages; with fail set every send errors.
type recordingMailer struct {
	mu       sync.Mutex
	messages []mail.Message
	fail     bool
}

func (m *recordingMailer) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("delivery refused")
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *recordingMailer) sent() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mail.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

type fixture struct {
	gateway    *service.Gateway
	accounts   *memoryAccountRepo
	inquiries  *memoryInquiryRepo
	mailer     *recordingMailer
	dispatcher *notify.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	accounts := &memoryAccountRepo{}
	inquiries := &memoryInquiryRepo{}
	mailer := &recordingMailer{}
	dispatcher := notify.NewDispatcher(mailer, zap.NewNop(), 1, 16)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return &fixture{
		gateway:    service.NewGateway(accounts, inquiries, dispatcher, node, operatorAddr, zap.NewNop()),
		accounts:   accounts,
		inquiries:  inquiries,
		mailer:     mailer,
		dispatcher: dispatcher,
	}
}

func TestRegisterPersistsNormalizedAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	account, err := f.gateway.Register(ctx, service.RegisterInput{
		Name:       "  Ann ",
		Mobile:     " 9000000001 ",
		Email:      "Ann@Ex.com",
		Credential: "x",
	})
	require.NoError(t, err)
	require.NotEmpty(t, account.ID)
	require.Equal(t, "Ann", account.Name)
	require.Equal(t, "9000000001", account.Mobile)
	require.Equal(t, "ann@ex.com", account.Email)
	require.NotEqual(t, "x", account.CredentialHash)

	found, err := f.accounts.FindByEmail(ctx, "ann@ex.com")
	require.NoError(t, err)
	require.Equal(t, account.ID, found.ID)

	ok, err := password.Verify("x", found.CredentialHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRegisterDuplicateFailsWithConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.gateway.Register(ctx, service.RegisterInput{
		Name: "Ann", Mobile: "9000000001", Email: "ann@ex.com", Credential: "x",
	})
	require.NoError(t, err)

	// Same email, different mobile and casing.
	_, err = f.gateway.Register(ctx, service.RegisterInput{
		Name: "Ann Again", Mobile: "9000000002", Email: "ANN@EX.COM", Credential: "y",
	})
	require.ErrorIs(t, err, domain.ErrConflict)

	// Same mobile, different email.
	_, err = f.gateway.Register(ctx, service.RegisterInput{
		Name: "Bob", Mobile: "9000000001", Email: "bob@ex.com", Credential: "z",
	})
	require.ErrorIs(t, err, domain.ErrConflict)

	require.Equal(t, 1, f.accounts.count())
}

func TestRegisterMissingFields(t *testing.T) {
	ctx := context.Background()

	cases := map[string]service.RegisterInput{
		"no name":       {Mobile: "9000000001", Email: "a@b.c", Credential: "x"},
		"no mobile":     {Name: "Ann", Email: "a@b.c", Credential: "x"},
		"no email":      {Name: "Ann", Mobile: "9000000001", Credential: "x"},
		"no credential": {Name: "Ann", Mobile: "9000000001", Email: "a@b.c"},
		"whitespace":    {Name: "  ", Mobile: "9000000001", Email: "a@b.c", Credential: "x"},
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.gateway.Register(ctx, input)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			require.Zero(t, f.accounts.count())
		})
	}
}

func TestRegisterConcurrentSameIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.gateway.Register(ctx, service.RegisterInput{
				Name: "Ann", Mobile: "9000000001", Email: "ann@ex.com", Credential: "x",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, domain.ErrConflict)
		}
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, f.accounts.count())
}

func TestRegisterDispatchesBothNotifications(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.gateway.Register(ctx, service.RegisterInput{
		Name: "Ann", Mobile: "9000000001", Email: "ann@ex.com", Credential: "x",
	})
	require.NoError(t, err)

	f.dispatcher.Close()

	sent := f.mailer.sent()
	require.Len(t, sent, 2)

	subjects := map[string][]string{}
	for _, msg := range sent {
		subjects[msg.Subject] = msg.To
	}
	require.Equal(t, []string{"ann@ex.com"}, subjects["Welcome to ARRAutomation!"])
	require.Equal(t, []string{operatorAddr}, subjects["New User Signup"])
}

func TestRegisterSucceedsWhenDeliveryFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mailer.fail = true

	_, err := f.gateway.Register(ctx, service.RegisterInput{
		Name: "Ann", Mobile: "9000000001", Email: "ann@ex.com", Credential: "x",
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.accounts.count())

	f.dispatcher.Close()
	require.Empty(t, f.mailer.sent())
}

func TestRegisterStorageFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("insert fails", func(t *testing.T) {
		mailer := &recordingMailer{}
		dispatcher := notify.NewDispatcher(mailer, zap.NewNop(), 1, 16)
		node, err := snowflake.NewNode(1)
		require.NoError(t, err)

		gateway := service.NewGateway(&brokenAccountRepo{insertErr: errStoreDown}, &memoryInquiryRepo{}, dispatcher, node, operatorAddr, zap.NewNop())

		_, err = gateway.Register(ctx, service.RegisterInput{
			Name: "Ann", Mobile: "9000000001", Email: "ann@ex.com", Credential: "x",
		})
		require.ErrorIs(t, err, errStoreDown)
		require.NotErrorIs(t, err, domain.ErrConflict)
		require.NotErrorIs(t, err, domain.ErrInvalidInput)

		// A failed write must dispatch nothing.
		dispatcher.Close()
		require.Empty(t, mailer.sent())
	})

	t.Run("duplicate check fails", func(t *testing.T) {
		mailer := &recordingMailer{}
		dispatcher := notify.NewDispatcher(mailer, zap.NewNop(), 1, 16)
		node, err := snowflake.NewNode(1)
		require.NoError(t, err)

		gateway := service.NewGateway(&brokenAccountRepo{findErr: errStoreDown}, &memoryInquiryRepo{}, dispatcher, node, operatorAddr, zap.NewNop())

		_, err = gateway.Register(ctx, service.RegisterInput{
			Name: "Ann", Mobile: "9000000001", Email: "ann@ex.com", Credential: "x",
		})
		require.ErrorIs(t, err, errStoreDown)
		require.NotErrorIs(t, err, domain.ErrConflict)

		dispatcher.Close()
		require.Empty(t, mailer.sent())
	})
}

func TestSubmitInquiryStorageFailure(t *testing.T) {
	ctx := context.Background()
	mailer := &recordingMailer{}
	dispatcher := notify.NewDispatcher(mailer, zap.NewNop(), 1, 16)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	gateway := service.NewGateway(&memoryAccountRepo{}, &brokenInquiryRepo{insertErr: errStoreDown}, dispatcher, node, operatorAddr, zap.NewNop())

	_, err = gateway.SubmitInquiry(ctx, service.InquiryInput{
		Name: "Ann", Email: "ann@ex.com", Message: "Need a quote",
	})
	require.ErrorIs(t, err, errStoreDown)
	require.NotErrorIs(t, err, domain.ErrInvalidInput)

	dispatcher.Close()
	require.Empty(t, mailer.sent())
}

func TestLoginStorageFailure(t *testing.T) {
	ctx := context.Background()
	mailer := &recordingMailer{}
	dispatcher := notify.NewDispatcher(mailer, zap.NewNop(), 1, 16)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	gateway := service.NewGateway(&brokenAccountRepo{findErr: errStoreDown}, &memoryInquiryRepo{}, dispatcher, node, operatorAddr, zap.NewNop())

	_, err = gateway.Login(ctx, "ann@ex.com", "secret")
	require.ErrorIs(t, err, errStoreDown)
	require.NotErrorIs(t, err, domain.ErrNotFound)
	require.NotErrorIs(t, err, domain.ErrInvalidCredential)
}

func TestSubmitInquiryDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	inquiry, err := f.gateway.SubmitInquiry(ctx, service.InquiryInput{
		Name:    "Ann",
		Email:   "Ann@Ex.com",
		Message: "Need a quote",
	})
	require.NoError(t, err)
	require.Equal(t, "ann@ex.com", inquiry.Email)
	require.Equal(t, "", inquiry.Phone)
	require.Equal(t, "General", inquiry.Service)

	f.dispatcher.Close()

	sent := f.mailer.sent()
	require.Len(t, sent, 2)

	var sawAlert, sawAck bool
	for _, msg := range sent {
		switch msg.Subject {
		case "New Inquiry: GENERAL":
			sawAlert = true
			require.Equal(t, []string{operatorAddr}, msg.To)
		case "We received your message - ARRAutomation":
			sawAck = true
			require.Equal(t, []string{"ann@ex.com"}, msg.To)
		}
	}
	require.True(t, sawAlert)
	require.True(t, sawAck)
}

func TestSubmitInquiryUppercasesServiceInSubject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.gateway.SubmitInquiry(ctx, service.InquiryInput{
		Name:    "Ann",
		Email:   "ann@ex.com",
		Service: "Cypress Automation",
		Message: "Hello",
	})
	require.NoError(t, err)

	f.dispatcher.Close()

	var subjects []string
	for _, msg := range f.mailer.sent() {
		subjects = append(subjects, msg.Subject)
	}
	require.Contains(t, subjects, "New Inquiry: "+strings.ToUpper("Cypress Automation"))
}

func TestSubmitInquiryMissingFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.gateway.SubmitInquiry(ctx, service.InquiryInput{Name: "Ann", Email: "a@b.c"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.gateway.SubmitInquiry(ctx, service.InquiryInput{Email: "a@b.c", Message: "hi"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoginFlows(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.gateway.Register(ctx, service.RegisterInput{
		Name: "Ann", Mobile: "9000000001", Email: "ann@ex.com", Credential: "secret",
	})
	require.NoError(t, err)

	account, err := f.gateway.Login(ctx, "ANN@ex.com ", "secret")
	require.NoError(t, err)
	require.Equal(t, "ann@ex.com", account.Email)

	_, err = f.gateway.Login(ctx, "ann@ex.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)

	_, err = f.gateway.Login(ctx, "nobody@ex.com", "secret")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.gateway.Login(ctx, "", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	f.dispatcher.Close()

	var subjects []string
	for _, msg := range f.mailer.sent() {
		subjects = append(subjects, msg.Subject)
	}
	require.Contains(t, subjects, "Login Notification - ARRAutomation")
}
