package service

import (
	"context"
	stderrors "errors"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/aljannat-dev/aljannat/backend/internal/mail"
	"github.com/aljannat-dev/aljannat/shared/config"
	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/errors"
	"github.com/aljannat-dev/aljannat/shared/logger"
	"github.com/aljannat-dev/aljannat/shared/utils"
	"golang.org/x/crypto/bcrypt"
)

const compensationTimeout = 5 * time.Second

var (
	errFieldsRequired  = errors.Validation("All fields are required")
	errInvalidEmail    = errors.Validation("Invalid email")
	errInvalidRole     = errors.Validation("Role must be Admin or Member")
	errPasswordTooLong = errors.Validation("Password is too long")
	errTooManyAttempts = errors.RateLimited("Too many attempts, try again later")
)

type AuthService interface {
	Register(ctx context.Context, data domain.RegistrationData) error
	ResendOtp(ctx context.Context, email domain.Email) error
	VerifyOtp(ctx context.Context, email domain.Email, code string) error
	Login(ctx context.Context, creds domain.Credentials) (domain.Session, error)

	// Admin operations
	PromoteUser(ctx context.Context, email domain.Email, role domain.Role) error
}

type Auth struct {
	storage  AuthStorage
	ledger   CodeLedger
	mailer   Mailer
	jwt      Jwt
	attempts AttemptLimiter
	cfg      *config.Public

	now          func() time.Time
	generateCode func() (string, error)
}

type AuthStorage interface {
	SaveUser(ctx context.Context, user domain.User) (domain.UserId, error)
	User(ctx context.Context, email domain.Email) (domain.User, error)
	MarkVerified(ctx context.Context, email domain.Email) error
	UpdateRole(ctx context.Context, email domain.Email, role domain.Role) error
	DeleteUnverifiedUser(ctx context.Context, email domain.Email) error
}

// CodeLedger keeps at most one active code per email.
type CodeLedger interface {
	// ReplaceCode drops every outstanding code for otp.Email and stores otp.
	ReplaceCode(ctx context.Context, otp domain.OneTimeCode) error
	// ConsumeCode atomically deletes and returns a code matching email and code
	// created at or after notBefore. No match is reported as a 404.
	ConsumeCode(ctx context.Context, email domain.Email, code string, notBefore time.Time) (domain.OneTimeCode, error)
	// RestoreCode puts a consumed code back unless a newer one was issued.
	RestoreCode(ctx context.Context, otp domain.OneTimeCode) error
	DeleteCodes(ctx context.Context, email domain.Email) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

// AttemptLimiter bounds verification attempts per email. Nil disables it.
type AttemptLimiter interface {
	Allow(ctx context.Context, email domain.Email) (bool, error)
	Reset(ctx context.Context, email domain.Email) error
}

func NewAuth(storage AuthStorage, ledger CodeLedger, mailer Mailer, jwt Jwt, attempts AttemptLimiter, cfg *config.Public) *Auth {
	return &Auth{
		storage:  storage,
		ledger:   ledger,
		mailer:   mailer,
		jwt:      jwt,
		attempts: attempts,
		cfg:      cfg,
		now:      time.Now,
		generateCode: func() (string, error) {
			return utils.GenerateNumericCode(domain.OtpMin, domain.OtpMax)
		},
	}
}

// Register creates an unverified account and mails it a code. If the code
// can't be issued or delivered the account is removed again so the caller can
// simply retry.
func (a *Auth) Register(ctx context.Context, data domain.RegistrationData) (err error) {
	defer func() { recordAuth("register", err) }()

	name := strings.TrimSpace(data.Name)
	email := utils.NormalizeEmail(data.Email)
	if name == "" || email == "" || data.Password == "" {
		return errFieldsRequired
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	role, err := a.resolveRole(email, data.Role)
	if err != nil {
		return err
	}

	_, err = a.storage.User(ctx, email)
	if err == nil {
		return errors.ErrDuplicateAccount
	}
	if !errors.IsNotFound(err) {
		return dependencyFailure("register: user lookup", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(data.Password), a.cfg.BcryptCost)
	if err != nil {
		if stderrors.Is(err, bcrypt.ErrPasswordTooLong) {
			return errPasswordTooLong
		}
		return dependencyFailure("register: hash password", err)
	}

	_, err = a.storage.SaveUser(ctx, domain.User{
		Name:     name,
		Email:    email,
		PassHash: string(passHash),
		Role:     role,
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrDuplicateAccount) {
			return errors.ErrDuplicateAccount
		}
		return dependencyFailure("register: save user", err)
	}

	if err := a.issueCode(ctx, email); err != nil {
		a.compensateRegister(ctx, email)
		return dependencyFailure("register: issue code", err)
	}

	logger.Log.Info("user registered", "email", email, "role", role)
	return nil
}

// ResendOtp issues a fresh code for a pending account. Unknown and already
// verified addresses are accepted silently.
func (a *Auth) ResendOtp(ctx context.Context, email domain.Email) (err error) {
	defer func() { recordAuth("resend", err) }()

	email = utils.NormalizeEmail(email)
	if email == "" {
		return errFieldsRequired
	}
	if err := validateEmail(email); err != nil {
		return err
	}

	user, err := a.storage.User(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			logger.Log.Debug("resend requested for unknown email", "email", email)
			return nil
		}
		return dependencyFailure("resend: user lookup", err)
	}
	if user.IsVerified {
		logger.Log.Debug("resend requested for verified user", "email", email)
		return nil
	}

	if err := a.issueCode(ctx, email); err != nil {
		a.discardCodes(ctx, email)
		return dependencyFailure("resend: issue code", err)
	}
	return nil
}

func (a *Auth) VerifyOtp(ctx context.Context, email domain.Email, code string) (err error) {
	defer func() { recordAuth("verify", err) }()

	email = utils.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return errors.Validation("Email and OTP are required")
	}

	if a.attempts != nil {
		allowed, err := a.attempts.Allow(ctx, email)
		if err != nil {
			return dependencyFailure("verify: attempt limiter", err)
		}
		if !allowed {
			logger.Log.Warn("verification attempts exhausted", "email", email)
			return errTooManyAttempts
		}
	}

	// A code issued for an account that doesn't exist yet must stay in place.
	if _, err := a.storage.User(ctx, email); err != nil {
		if errors.IsNotFound(err) {
			return errors.ErrInvalidCode
		}
		return dependencyFailure("verify: user lookup", err)
	}

	otp, err := a.ledger.ConsumeCode(ctx, email, code, a.now().Add(-a.cfg.OtpTTL))
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.ErrInvalidCode
		}
		return dependencyFailure("verify: consume code", err)
	}

	if err := a.storage.MarkVerified(ctx, email); err != nil {
		restoreCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
		defer cancel()
		if rerr := a.ledger.RestoreCode(restoreCtx, otp); rerr != nil {
			logger.Log.Error("failed to restore consumed code", "email", email, "error", rerr)
		}
		return dependencyFailure("verify: mark verified", err)
	}

	if a.attempts != nil {
		if err := a.attempts.Reset(ctx, email); err != nil {
			logger.Log.Warn("failed to reset verification attempts", "email", email, "error", err)
		}
	}

	logger.Log.Info("email verified", "email", email)
	return nil
}

func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (_ domain.Session, err error) {
	defer func() { recordAuth("login", err) }()

	email := utils.NormalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return domain.Session{}, errFieldsRequired
	}

	user, err := a.storage.User(ctx, email)
	if err != nil {
		// to not leak existing users
		if errors.IsNotFound(err) {
			return domain.Session{}, errors.ErrNotFoundOrUnverified
		}
		return domain.Session{}, dependencyFailure("login: user lookup", err)
	}
	if !user.IsVerified {
		return domain.Session{}, errors.ErrNotFoundOrUnverified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		logger.Log.Debug("password mismatch", "email", email)
		return domain.Session{}, errors.ErrInvalidCredentials
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		return domain.Session{}, dependencyFailure("login: issue token", err)
	}

	return domain.Session{Token: token, User: user}, nil
}

func (a *Auth) PromoteUser(ctx context.Context, email domain.Email, role domain.Role) error {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return errFieldsRequired
	}
	if !role.Valid() {
		return errInvalidRole
	}

	if err := a.storage.UpdateRole(ctx, email, role); err != nil {
		if errors.IsNotFound(err) {
			return err
		}
		return dependencyFailure("promote: update role", err)
	}

	logger.Log.Info("user role changed", "email", email, "role", role)
	return nil
}

func (a *Auth) resolveRole(email domain.Email, requested domain.Role) (domain.Role, error) {
	role := requested
	if role == "" {
		role = domain.Role(a.cfg.DefaultRole)
	}
	if !role.Valid() {
		return "", errInvalidRole
	}
	if role == domain.RoleAdmin && a.cfg.RestrictAdminSignup && !a.cfg.IsAdminEmail(email) {
		logger.Log.Warn("admin signup not allowed, registering as member", "email", email)
		return domain.RoleMember, nil
	}
	return role, nil
}

func (a *Auth) issueCode(ctx context.Context, email domain.Email) error {
	code, err := a.generateCode()
	if err != nil {
		return err
	}

	otp := domain.OneTimeCode{Email: email, Code: code, CreatedAt: a.now().UTC()}
	if err := a.ledger.ReplaceCode(ctx, otp); err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, a.cfg.MailTimeout)
	defer cancel()
	msgID, err := a.mailer.Send(sendCtx, email, mail.OtpSubject, mail.OtpBody(code, a.cfg.OtpTTL))
	if err != nil {
		return err
	}

	logger.Log.Debug("otp dispatched", "email", email, "message_id", msgID)
	return nil
}

// compensateRegister undoes a half-finished registration. It keeps going
// after the request context is gone.
func (a *Auth) compensateRegister(ctx context.Context, email domain.Email) {
	a.discardCodes(ctx, email)

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()
	if err := a.storage.DeleteUnverifiedUser(cctx, email); err != nil && !errors.IsNotFound(err) {
		logger.Log.Error("failed to remove unverified user", "email", email, "error", err)
	}
}

func (a *Auth) discardCodes(ctx context.Context, email domain.Email) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()
	if err := a.ledger.DeleteCodes(cctx, email); err != nil {
		logger.Log.Error("failed to discard codes", "email", email, "error", err)
	}
}

func validateEmail(email domain.Email) error {
	addr, err := netmail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errInvalidEmail
	}
	return nil
}

// dependencyFailure logs the cause and hides it behind a generic server error.
func dependencyFailure(op string, err error) error {
	logger.Log.Error("dependency failure", "op", op, "error", err)
	return errors.ErrServer
}
