package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/errors"
)

// --- Function-field mocks ---

type MockAuthStorage struct {
	SaveUserFunc             func(ctx context.Context, user domain.User) (domain.UserId, error)
	UserFunc                 func(ctx context.Context, email domain.Email) (domain.User, error)
	MarkVerifiedFunc         func(ctx context.Context, email domain.Email) error
	UpdateRoleFunc           func(ctx context.Context, email domain.Email, role domain.Role) error
	DeleteUnverifiedUserFunc func(ctx context.Context, email domain.Email) error
}

func (m *MockAuthStorage) SaveUser(ctx context.Context, user domain.User) (domain.UserId, error) {
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(ctx, user)
	}
	return 1, nil
}

func (m *MockAuthStorage) User(ctx context.Context, email domain.Email) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(ctx, email)
	}
	// Default: not registered yet
	return domain.User{}, errors.NotFound("User not found")
}

func (m *MockAuthStorage) MarkVerified(ctx context.Context, email domain.Email) error {
	if m.MarkVerifiedFunc != nil {
		return m.MarkVerifiedFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthStorage) UpdateRole(ctx context.Context, email domain.Email, role domain.Role) error {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, email, role)
	}
	return nil
}

func (m *MockAuthStorage) DeleteUnverifiedUser(ctx context.Context, email domain.Email) error {
	if m.DeleteUnverifiedUserFunc != nil {
		return m.DeleteUnverifiedUserFunc(ctx, email)
	}
	return nil
}

type MockCodeLedger struct {
	ReplaceCodeFunc func(ctx context.Context, otp domain.OneTimeCode) error
	ConsumeCodeFunc func(ctx context.Context, email domain.Email, code string, notBefore time.Time) (domain.OneTimeCode, error)
	RestoreCodeFunc func(ctx context.Context, otp domain.OneTimeCode) error
	DeleteCodesFunc func(ctx context.Context, email domain.Email) error
}

func (m *MockCodeLedger) ReplaceCode(ctx context.Context, otp domain.OneTimeCode) error {
	if m.ReplaceCodeFunc != nil {
		return m.ReplaceCodeFunc(ctx, otp)
	}
	return nil
}

func (m *MockCodeLedger) ConsumeCode(ctx context.Context, email domain.Email, code string, notBefore time.Time) (domain.OneTimeCode, error) {
	if m.ConsumeCodeFunc != nil {
		return m.ConsumeCodeFunc(ctx, email, code, notBefore)
	}
	return domain.OneTimeCode{}, errors.NotFound("Code not found")
}

func (m *MockCodeLedger) RestoreCode(ctx context.Context, otp domain.OneTimeCode) error {
	if m.RestoreCodeFunc != nil {
		return m.RestoreCodeFunc(ctx, otp)
	}
	return nil
}

func (m *MockCodeLedger) DeleteCodes(ctx context.Context, email domain.Email) error {
	if m.DeleteCodesFunc != nil {
		return m.DeleteCodesFunc(ctx, email)
	}
	return nil
}

type MockMailer struct {
	SendFunc func(ctx context.Context, to, subject, body string) (string, error)
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) (string, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, body)
	}
	return "msg-1", nil
}

type MockJwt struct {
	NewTokenFunc func(user domain.User) (string, error)
}

func (m *MockJwt) NewToken(user domain.User) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(user)
	}
	return "token", nil
}

type MockAttemptLimiter struct {
	AllowFunc func(ctx context.Context, email domain.Email) (bool, error)
	ResetFunc func(ctx context.Context, email domain.Email) error
}

func (m *MockAttemptLimiter) Allow(ctx context.Context, email domain.Email) (bool, error) {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, email)
	}
	return true, nil
}

func (m *MockAttemptLimiter) Reset(ctx context.Context, email domain.Email) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, email)
	}
	return nil
}

type MockObjectStorage struct {
	mu          sync.Mutex
	UploadFunc  func(ctx context.Context, obj domain.Object) (domain.StoredObject, error)
	DestroyFunc func(ctx context.Context, key string) error
	uploads     int
	destroyed   []string
}

func (m *MockObjectStorage) Upload(ctx context.Context, obj domain.Object) (domain.StoredObject, error) {
	m.mu.Lock()
	m.uploads++
	n := m.uploads
	m.mu.Unlock()

	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, obj)
	}
	key := "media/obj-" + strconv.Itoa(n) + obj.Ext
	return domain.StoredObject{URL: "https://cdn.test/" + key, Key: key}, nil
}

func (m *MockObjectStorage) Destroy(ctx context.Context, key string) error {
	m.mu.Lock()
	m.destroyed = append(m.destroyed, key)
	m.mu.Unlock()

	if m.DestroyFunc != nil {
		return m.DestroyFunc(ctx, key)
	}
	return nil
}

func (m *MockObjectStorage) Destroyed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.destroyed...)
}

type MockRenderer struct{}

func (MockRenderer) Render(text string) string    { return "<p>" + text + "</p>" }
func (MockRenderer) StripTags(text string) string { return stripAngles(text) }

func stripAngles(s string) string {
	var out []rune
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			out = append(out, r)
		}
	}
	return string(out)
}

// --- In-memory fakes for end-to-end flows ---

type memUsers struct {
	mu    sync.Mutex
	users map[domain.Email]domain.User
	next  domain.UserId
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[domain.Email]domain.User)}
}

func (s *memUsers) SaveUser(_ context.Context, user domain.User) (domain.UserId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return 0, errors.ErrDuplicateAccount
	}
	s.next++
	user.Id = s.next
	s.users[user.Email] = user
	return user.Id, nil
}

func (s *memUsers) User(_ context.Context, email domain.Email) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return domain.User{}, errors.NotFound("User not found")
	}
	return u, nil
}

func (s *memUsers) MarkVerified(_ context.Context, email domain.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return errors.NotFound("User not found")
	}
	u.IsVerified = true
	s.users[email] = u
	return nil
}

func (s *memUsers) UpdateRole(_ context.Context, email domain.Email, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return errors.NotFound("User not found")
	}
	u.Role = role
	s.users[email] = u
	return nil
}

func (s *memUsers) DeleteUnverifiedUser(_ context.Context, email domain.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok || u.IsVerified {
		return errors.NotFound("User not found")
	}
	delete(s.users, email)
	return nil
}

type memLedger struct {
	mu    sync.Mutex
	codes map[domain.Email]domain.OneTimeCode
}

func newMemLedger() *memLedger {
	return &memLedger{codes: make(map[domain.Email]domain.OneTimeCode)}
}

func (l *memLedger) ReplaceCode(_ context.Context, otp domain.OneTimeCode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.codes[otp.Email] = otp
	return nil
}

func (l *memLedger) ConsumeCode(_ context.Context, email domain.Email, code string, notBefore time.Time) (domain.OneTimeCode, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	otp, ok := l.codes[email]
	if !ok || otp.Code != code || otp.CreatedAt.Before(notBefore) {
		return domain.OneTimeCode{}, errors.NotFound("Code not found")
	}
	delete(l.codes, email)
	return otp, nil
}

func (l *memLedger) RestoreCode(_ context.Context, otp domain.OneTimeCode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.codes[otp.Email]; !ok {
		l.codes[otp.Email] = otp
	}
	return nil
}

func (l *memLedger) DeleteCodes(_ context.Context, email domain.Email) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.codes, email)
	return nil
}

func (l *memLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.codes)
}

// outbox records every message a mailer was asked to send.
type outbox struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	To, Subject, Body string
}

func (o *outbox) Send(_ context.Context, to, subject, body string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, sentMail{To: to, Subject: subject, Body: body})
	return "msg", nil
}

func (o *outbox) Last() sentMail {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.sent) == 0 {
		return sentMail{}
	}
	return o.sent[len(o.sent)-1]
}

func (o *outbox) Count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}
