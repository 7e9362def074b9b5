package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"quizmania-service/internal/domain"
)

const noReplyAddress = "quizmania@no-reply.com"

// UserServiceConfig holds the settings of account flows.
type UserServiceConfig struct {
	// AppURL prefixes the links sent by e-mail.
	AppURL string
	// From is the sender address; defaults to a no-reply address.
	From string
	// TokenTTL is the lifetime of confirmation and reset tokens.
	TokenTTL time.Duration
}

// UserService covers registration, login and account management.
type UserService struct {
	users  UserRepository
	tokens TokenRepository
	hasher PasswordHasher
	issuer TokenIssuer
	mailer Mailer
	cfg    UserServiceConfig
	now    func() time.Time
	newID  func() string
}

func NewUserService(users UserRepository, tokens TokenRepository, hasher PasswordHasher, issuer TokenIssuer, mailer Mailer, cfg UserServiceConfig) *UserService {
	return NewUserServiceWithClock(users, tokens, hasher, issuer, mailer, cfg, time.Now)
}

// NewUserServiceWithClock is test-only for deterministic token expiry.
func NewUserServiceWithClock(users UserRepository, tokens TokenRepository, hasher PasswordHasher, issuer TokenIssuer, mailer Mailer, cfg UserServiceConfig, now func() time.Time) *UserService {
	if cfg.From == "" {
		cfg.From = noReplyAddress
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &UserService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		issuer: issuer,
		mailer: mailer,
		cfg:    cfg,
		now:    now,
		newID:  uuid.NewString,
	}
}

// Register creates a disabled account and mails a confirmation link.
// If the mail cannot be sent the account and its token are removed again.
func (s *UserService) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	if err := validateStruct(reg); err != nil {
		return domain.User{}, err
	}
	if reg.Password != reg.PasswordConfirmation {
		return domain.User{}, domain.ErrPasswordMismatch
	}
	if _, err := s.users.FindByEmail(ctx, reg.Email); err == nil {
		return domain.User{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}
	if _, err := s.users.FindByUsername(ctx, reg.Username); err == nil {
		return domain.User{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           s.newID(),
		Email:        reg.Email,
		Username:     reg.Username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}

	token, err := s.createToken(ctx, user.ID, domain.TokenPurposeConfirm)
	if err == nil {
		link := s.cfg.AppURL + "/confirmation?token=" + token.Token
		err = s.mail(ctx, user.Email, "Complete Registration",
			`To confirm your account, please click here: <a href="`+link+`">verify</a>`)
		if err != nil {
			if derr := s.tokens.DeleteToken(ctx, token.Token); derr != nil {
				log.Printf("rollback of token for user %s failed: %v", user.ID, derr)
			}
		}
	}
	if err != nil {
		if derr := s.users.DeleteUser(ctx, user.ID); derr != nil {
			log.Printf("rollback of user %s failed: %v", user.ID, derr)
		}
		return domain.User{}, err
	}
	return user, nil
}

// Login verifies credentials (username or e-mail) and issues a bearer token.
func (s *UserService) Login(ctx context.Context, creds domain.Credentials) (domain.AccessToken, error) {
	if err := validateStruct(creds); err != nil {
		return domain.AccessToken{}, err
	}
	user, err := s.findByEmailOrUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.AccessToken{}, domain.ErrBadCredentials
		}
		return domain.AccessToken{}, err
	}
	if !s.hasher.Verify(user.PasswordHash, creds.Password) {
		return domain.AccessToken{}, domain.ErrBadCredentials
	}
	if !user.Enabled {
		return domain.AccessToken{}, domain.ErrAccountDisabled
	}
	token, err := s.issuer.Issue(user)
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("issue token: %w", err)
	}
	return domain.AccessToken{TokenType: "Bearer", Token: token}, nil
}

// ConfirmAccount enables the account a confirmation token was issued for.
func (s *UserService) ConfirmAccount(ctx context.Context, token string) error {
	ct, err := s.useToken(ctx, token, domain.TokenPurposeConfirm)
	if err != nil {
		return err
	}
	user, err := s.users.GetUser(ctx, ct.UserID)
	if err != nil {
		return err
	}
	user.Enabled = true
	return s.users.UpdateUser(ctx, user)
}

// SendPasswordReset mails a password reset link to the account owning email.
func (s *UserService) SendPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	token, err := s.createToken(ctx, user.ID, domain.TokenPurposeReset)
	if err != nil {
		return err
	}
	link := s.cfg.AppURL + "/resetPassword?token=" + token.Token
	return s.mail(ctx, email, "Reset password",
		`To reset your password, please click here: <a href="`+link+`">reset</a>`)
}

// ResetPassword sets a new password for the account a reset token was issued for.
func (s *UserService) ResetPassword(ctx context.Context, token string, change domain.PasswordChange) error {
	if err := validateStruct(change); err != nil {
		return err
	}
	if change.NewPassword != change.PasswordConfirmation {
		return domain.ErrPasswordMismatch
	}
	ct, err := s.useToken(ctx, token, domain.TokenPurposeReset)
	if err != nil {
		return err
	}
	user, err := s.users.GetUser(ctx, ct.UserID)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, user, change.NewPassword)
}

// UpdatePassword changes the caller's password after checking the current one.
func (s *UserService) UpdatePassword(ctx context.Context, caller *domain.Identity, change domain.PasswordChange) error {
	if err := validateStruct(change); err != nil {
		return err
	}
	user, err := s.caller(ctx, caller)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(user.PasswordHash, change.OldPassword) {
		return domain.ErrWrongPassword
	}
	if change.NewPassword != change.PasswordConfirmation {
		return domain.ErrPasswordMismatch
	}
	return s.setPassword(ctx, user, change.NewPassword)
}

// Me returns the caller's account.
func (s *UserService) Me(ctx context.Context, caller *domain.Identity) (domain.UserView, error) {
	user, err := s.caller(ctx, caller)
	if err != nil {
		return domain.UserView{}, err
	}
	return user.View(), nil
}

// ListUsers returns every account. Admin only.
func (s *UserService) ListUsers(ctx context.Context, caller *domain.Identity) ([]domain.UserView, error) {
	if caller == nil {
		return nil, domain.ErrMissingIdentity
	}
	if !caller.IsAdmin() {
		return nil, domain.ErrAdminOnly
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]domain.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, nil
}

// DeleteUser removes the caller's account.
func (s *UserService) DeleteUser(ctx context.Context, caller *domain.Identity) error {
	user, err := s.caller(ctx, caller)
	if err != nil {
		return err
	}
	return s.users.DeleteUser(ctx, user.ID)
}

func (s *UserService) caller(ctx context.Context, caller *domain.Identity) (domain.User, error) {
	if caller == nil {
		return domain.User{}, domain.ErrMissingIdentity
	}
	return s.users.GetUser(ctx, caller.UserID)
}

func (s *UserService) findByEmailOrUsername(ctx context.Context, login string) (domain.User, error) {
	user, err := s.users.FindByEmail(ctx, login)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}
	return s.users.FindByUsername(ctx, login)
}

func (s *UserService) setPassword(ctx context.Context, user domain.User, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	return s.users.UpdateUser(ctx, user)
}

func (s *UserService) createToken(ctx context.Context, userID, purpose string) (domain.ConfirmationToken, error) {
	token := domain.ConfirmationToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		Purpose:   purpose,
		ExpiresAt: s.now().Add(s.cfg.TokenTTL),
	}
	if err := s.tokens.SaveToken(ctx, token); err != nil {
		return domain.ConfirmationToken{}, fmt.Errorf("save token: %w", err)
	}
	return token, nil
}

// useToken resolves a token issued for purpose and consumes it.
// A token issued for another flow is reported as unknown and left in place.
func (s *UserService) useToken(ctx context.Context, token, purpose string) (domain.ConfirmationToken, error) {
	ct, err := s.tokens.GetToken(ctx, token)
	if err != nil {
		return domain.ConfirmationToken{}, err
	}
	if ct.Purpose != purpose {
		return domain.ConfirmationToken{}, domain.ErrTokenNotFound
	}
	if ct.Expired(s.now()) {
		return domain.ConfirmationToken{}, domain.ErrTokenExpired
	}
	if err := s.tokens.DeleteToken(ctx, token); err != nil {
		return domain.ConfirmationToken{}, fmt.Errorf("delete token: %w", err)
	}
	return ct, nil
}

func (s *UserService) mail(ctx context.Context, to, subject, content string) error {
	err := s.mailer.Send(ctx, domain.Email{
		To:      to,
		ReplyTo: noReplyAddress,
		From:    s.cfg.From,
		Subject: subject,
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMailDelivery, err)
	}
	return nil
}
