package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kazi-s/usermgmt/internal/model"
	"github.com/kazi-s/usermgmt/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrAccountBlocked        = errors.New("account is blocked")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired confirmation token")
	ErrInvalidToken          = errors.New("invalid token")
)

type AuthService struct {
	userRepository     repository.UserRepository
	emailService       *EmailService
	jwtSecret          string
	jwtIssuer          string
	jwtAudience        string
	jwtExpiry          time.Duration
	confirmTokenExpiry time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	emailService *EmailService,
	jwtSecret string,
	jwtIssuer string,
	jwtAudience string,
	jwtExpiry time.Duration,
	confirmTokenExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:     userRepository,
		emailService:       emailService,
		jwtSecret:          jwtSecret,
		jwtIssuer:          jwtIssuer,
		jwtAudience:        jwtAudience,
		jwtExpiry:          jwtExpiry,
		confirmTokenExpiry: confirmTokenExpiry,
	}
}

// Register creates an unverified account and dispatches the
// confirmation email in the background. Email failures are logged,
// never surfaced: registration already committed.
func (s *AuthService) Register(name, email, password string) (*model.User, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := s.GenerateConfirmationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate confirmation token: %w", err)
	}

	now := time.Now().UTC()
	expires := now.Add(s.confirmTokenExpiry)
	user := &model.User{
		ID:                       uuid.NewString(),
		Name:                     name,
		Email:                    email,
		PasswordHash:             hash,
		Status:                   model.StatusUnverified,
		RegistrationTime:         now,
		ConfirmationToken:        &token,
		ConfirmationTokenExpires: &expires,
		EmailConfirmed:           false,
	}

	// Duplicate email is detected from the storage unique constraint,
	// not a pre-check, so concurrent registrations cannot race past it.
	err = s.userRepository.Create(user)
	if err != nil {
		return nil, err
	}

	s.emailService.EnqueueConfirmation(user.Email, user.Name, token)

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// ConfirmEmail activates the account matching email when token is the
// pending confirmation token and has not expired. Confirming an
// already-confirmed account is a no-op success; alreadyConfirmed
// reports that case.
func (s *AuthService) ConfirmEmail(email, token string) (alreadyConfirmed bool, err error) {
	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		return false, err
	}

	if user.EmailConfirmed {
		return true, nil
	}

	if user.ConfirmationToken == nil || *user.ConfirmationToken != token ||
		user.ConfirmationTokenExpires == nil || user.ConfirmationTokenExpires.Before(time.Now().UTC()) {
		return false, ErrInvalidOrExpiredToken
	}

	err = s.userRepository.ConfirmEmail(user.ID)
	if err != nil {
		return false, err
	}

	slog.Info("email confirmed", "user_id", user.ID, "email", user.Email)
	return false, nil
}

// Login verifies credentials and issues a bearer token. Unknown email
// and wrong password return the identical error so callers cannot
// enumerate accounts.
func (s *AuthService) Login(email, password string) (*model.User, string, error) {
	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsBlocked() {
		return nil, "", ErrAccountBlocked
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	err = s.userRepository.UpdateLastLogin(user.ID, now)
	if err != nil {
		return nil, "", fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLoginTime = &now

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// ComparePassword is constant-time per bcrypt; a malformed hash is
// reported as a mismatch, never a panic.
func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateConfirmationToken returns an opaque random token for email
// confirmation links.
func (s *AuthService) GenerateConfirmationToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		Issuer:    s.jwtIssuer,
		Audience:  jwt.ClaimStrings{s.jwtAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyJWT validates signature, issuer, audience and expiry and
// returns the account id from the subject claim. Tokens are stateless:
// there is no server-side revocation list, the auth middleware
// re-checks account state on every request instead.
func (s *AuthService) VerifyJWT(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithAudience(s.jwtAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
