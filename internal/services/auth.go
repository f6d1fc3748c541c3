package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cognigen/cognigen-backend/internal/platform/ctxutil"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService verifies tokens minted by the identity service. It never issues
// tokens itself.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	ParseUserID(tokenString string) (uuid.UUID, error)
}

// JWTClaims accepts the standard subject and the legacy "id" claim.
type JWTClaims struct {
	UserID string `json:"id,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey []byte
}

func NewAuthService(log *logger.Logger, jwtSecretKey string) (AuthService, error) {
	if strings.TrimSpace(jwtSecretKey) == "" {
		return nil, fmt.Errorf("jwt secret key required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		jwtSecretKey: []byte(jwtSecretKey),
	}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	userID, err := as.ParseUserID(tokenString)
	if err != nil {
		return ctx, err
	}
	ctx = ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	})
	return ctx, nil
}

func (as *authService) ParseUserID(tokenString string) (uuid.UUID, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		sub = strings.TrimSpace(claims.UserID)
	}
	userID, err := uuid.Parse(sub)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: bad user id in token", ErrInvalidToken)
	}
	return userID, nil
}
