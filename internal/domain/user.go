package domain

import "time"

// Roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is a registered account. PasswordHash never leaves the service.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Enabled      bool   `json:"enabled"`
}

// View returns the public projection of the user.
func (u User) View() UserView {
	return UserView{Email: u.Email, Username: u.Username, Role: u.Role}
}

// UserView is what clients see of an account.
type UserView struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Identity is the authenticated caller of an operation.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// IsAdmin reports whether the caller holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Token purposes. A token is only accepted by the flow it was issued for.
const (
	TokenPurposeConfirm = "CONFIRM"
	TokenPurposeReset   = "RESET"
)

// ConfirmationToken links a one-off token (account confirmation, password reset) to a user.
type ConfirmationToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the token is no longer usable at now.
func (t ConfirmationToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// Registration is the sign-up form.
type Registration struct {
	Email                string `json:"email" validate:"required,email"`
	Username             string `json:"username" validate:"required"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required"`
}

// Credentials is the login form; Username may also hold an e-mail address.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PasswordChange carries a new password. OldPassword is only checked when changing a known password.
type PasswordChange struct {
	OldPassword          string `json:"oldPassword"`
	NewPassword          string `json:"newPassword" validate:"required"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required"`
}

// AccessToken is returned by a successful login.
type AccessToken struct {
	TokenType string `json:"tokenType"`
	Token     string `json:"token"`
}

// Email is an outgoing HTML message.
type Email struct {
	To      string
	ReplyTo string
	From    string
	Subject string
	Content string
}
