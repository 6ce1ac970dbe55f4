package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "buffzone.backend/internal/domain/errors"
	"buffzone.backend/pkg/crypto"
	"buffzone.backend/pkg/jwt"
	"buffzone.backend/pkg/redis"
)

// AuthUsecase authenticates the operator account that guards the manual
// invoice write path. This is deliberately not a user auth system.
type AuthUsecase struct {
	jwtService    *jwt.JWTService
	sessionStore  *redis.SessionStore
	adminUsername string
	adminHash     string
	sessionTTL    time.Duration
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(jwtService *jwt.JWTService, sessionStore *redis.SessionStore, adminUsername, adminHash string, sessionTTL time.Duration) *AuthUsecase {
	return &AuthUsecase{
		jwtService:    jwtService,
		sessionStore:  sessionStore,
		adminUsername: adminUsername,
		adminHash:     adminHash,
		sessionTTL:    sessionTTL,
	}
}

// LoginResult carries the issued token and its session id
type LoginResult struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
}

// Login checks the operator credential and issues a bearer token backed by a
// revocable redis session.
func (uc *AuthUsecase) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username != uc.adminUsername || !crypto.CheckPassword(password, uc.adminHash) {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := uc.jwtService.GenerateToken(username, "admin")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	sessionID := uuid.NewString()
	err = uc.sessionStore.CreateSession(ctx, sessionID, &redis.SessionData{
		AccessToken: token,
		Subject:     username,
		IssuedAt:    time.Now(),
	}, uc.sessionTTL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &LoginResult{Token: token, SessionID: sessionID}, nil
}

// Logout revokes the session
func (uc *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessionStore.DeleteSession(ctx, sessionID)
}
