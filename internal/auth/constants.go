package auth

import "time"

// Defaults
const (
	DefaultTokenTTL = 24 * time.Hour
	TokenIssuer     = "shemeta"
	BearerPrefix    = "Bearer "
)

// Error messages
const (
	ErrMsgEmptySecret     = "jwt secret must not be empty"
	ErrMsgSignToken       = "failed to sign token"
	ErrMsgInvalidToken    = "invalid or expired token"
	ErrMsgTokenRole       = "token carries an unknown role"
	ErrMsgNameRequired    = "name is required"
	ErrMsgAdminSelfSignup = "admin accounts cannot self-register"
	ErrMsgCreateUser      = "failed to create user"
	ErrMsgLoadUser        = "failed to load user"
)

// Log messages
const (
	LogMsgUserRegistered = "User registered"
	LogMsgTokenIssued    = "Token issued"
)
