package service

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/idtoken"

	"github.com/staylist/staylist-backend/internal/domain"
	"github.com/staylist/staylist-backend/internal/repository/ports"
	"github.com/staylist/staylist-backend/internal/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailTaken         = errors.New("user with that email already exists")
)

type AuthService struct {
	users ports.UserRepository
	jwt   *util.JWTManager
	aud   string
}

func NewAuthService(users ports.UserRepository, jwt *util.JWTManager, googleAudience string) *AuthService {
	return &AuthService{users: users, jwt: jwt, aud: googleAudience}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type AuthResult struct {
	User  *domain.User
	Token string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	errs := map[string]string{}
	if strings.TrimSpace(input.FirstName) == "" {
		errs["firstName"] = "First name is required"
	}
	if strings.TrimSpace(input.LastName) == "" {
		errs["lastName"] = "Last name is required"
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		errs["email"] = "Invalid email"
	}
	if err := util.ValidatePassword(input.Password); err != nil {
		errs["password"] = err.Error()
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	hash, salt, err := util.DerivePassword(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(user)
}

// LoginWithGoogle validates a Google ID token and upserts the account keyed
// by email, so a returning Google user keeps the same internal id.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idTok string) (*AuthResult, error) {
	payload, err := idtoken.Validate(ctx, idTok, s.aud)
	if err != nil {
		return nil, ErrInvalidToken
	}
	email, _ := payload.Claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return nil, ErrInvalidToken
	}
	givenName, _ := payload.Claims["given_name"].(string)
	familyName, _ := payload.Claims["family_name"].(string)

	user, err := s.users.UpsertGoogleUser(ctx, strings.ToLower(email), givenName, familyName)
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

// Authenticate resolves the bearer token into the current user; RequireAuth
// calls this on every protected request.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResult, error) {
	token, _, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}
