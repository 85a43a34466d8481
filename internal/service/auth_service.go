package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/digimarket/backend/internal/domain"
	"github.com/digimarket/backend/internal/port"
)

// AuthService registers users and turns credentials into signed tokens.
// Everything downstream trusts the Identity extracted from a valid token.
type AuthService struct {
	users      port.UserRepository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	logger     *zap.Logger
}

func NewAuth(users port.UserRepository, secret []byte, tokenTTL time.Duration, bcryptCost int, logger *zap.Logger) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		users:      users,
		secret:     secret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, email, password string) (domain.User, error) {
	var u domain.User

	if email == "" || password == "" {
		return u, fmt.Errorf("email and password are required: %w", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return u, fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	user := domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
	}

	userID, err := s.users.InsertUser(ctx, user)
	if err != nil {
		return u, fmt.Errorf("users.InsertUser: %w", err)
	}
	user.ID = userID

	s.logger.Info("user registered", zap.String("user_id", userID.String()))

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", fmt.Errorf("users.GetUserByEmail: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}

	now := time.Now()
	claims := tokenClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}

	return token, nil
}

// ParseToken verifies the signature and expiry and yields the caller's
// Identity. Credentials are not re-validated past this point.
func (s *AuthService) ParseToken(tokenString string) (domain.Identity, error) {
	var identity domain.Identity

	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return identity, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok {
		return identity, domain.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return identity, domain.ErrUnauthorized
	}

	role, err := domain.ToRole(claims.Role)
	if err != nil {
		return identity, domain.ErrUnauthorized
	}

	return domain.Identity{UserID: userID, Role: role}, nil
}
