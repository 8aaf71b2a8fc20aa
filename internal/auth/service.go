// Package auth authenticates users with bcrypt passwords and HS256 bearer
// tokens.
package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/model"
)

// Store is the user persistence the auth service needs.
type Store interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
}

// Service logs users in, registers accounts and resolves bearer tokens.
type Service struct {
	store  Store
	tokens *Tokens
	log    *zap.Logger
}

// NewService creates an auth service.
func NewService(st Store, tokens *Tokens) *Service {
	return &Service{
		store:  st,
		tokens: tokens,
		log:    zap.L().With(zap.String("component", "auth")),
	}
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        *model.User `json:"user"`
}

var errBadCredentials = apperr.Unauthorized("incorrect username or password")

// Login checks the credentials of a user identified by username or email.
// Unknown users and wrong passwords fail alike.
func (s *Service) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, errBadCredentials
	}

	u, err := s.store.GetUserByLogin(ctx, identifier)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		s.log.Info("login rejected", zap.Int64("user_id", u.ID))
		return nil, errBadCredentials
	}
	if !u.Active {
		return nil, apperr.Validation("inactive user")
	}

	token, exp, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, TokenType: "bearer", ExpiresAt: exp, User: u}, nil
}

// Register creates an active account. Duplicate usernames or emails surface
// as the store's conflict error.
func (s *Service) Register(ctx context.Context, nu model.NewUser) (*model.User, error) {
	nu.Username = strings.TrimSpace(nu.Username)
	if nu.Username == "" {
		return nil, apperr.Validation("username is required")
	}
	if len(nu.Password) < MinPasswordLength {
		return nil, apperr.Validation("password must have at least %d characters", MinPasswordLength)
	}
	if !nu.Role.Valid() {
		return nil, apperr.Validation("invalid role %q", nu.Role)
	}
	if nu.Email != nil {
		email := strings.TrimSpace(*nu.Email)
		if email == "" {
			nu.Email = nil
		} else if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperr.Validation("invalid email %q", email)
		} else {
			nu.Email = &email
		}
	}

	hash, err := HashPassword(nu.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: hash,
		Role:         nu.Role,
		Active:       true,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Int64("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// Authenticate resolves a bearer token to its active user.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Unauthorized("could not validate credentials")
	}
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, apperr.Unauthorized("inactive user")
	}
	return u, nil
}

type ctxKey struct{}

// NewContext returns ctx carrying the authenticated user.
func NewContext(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the authenticated user, if any.
func FromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*model.User)
	return u, ok && u != nil
}
