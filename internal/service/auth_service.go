package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rachas/hub/internal/repository"
	"rachas/hub/pkg/crypto"
	jwtpkg "rachas/hub/pkg/jwt"
)

// TokenSet represents a set of tokens returned after authentication.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*TokenSet, error)
	// RefreshToken rotates: the presented refresh token is revoked and a new pair issued.
	RefreshToken(ctx context.Context, refreshToken string) (*TokenSet, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	playerRepo repository.PlayerRepository
	tokenStore repository.TokenStore
	jwtManager *jwtpkg.Manager
}

func NewAuthService(
	playerRepo repository.PlayerRepository,
	tokenStore repository.TokenStore,
	jwtManager *jwtpkg.Manager,
) AuthService {
	return &authService{
		playerRepo: playerRepo,
		tokenStore: tokenStore,
		jwtManager: jwtManager,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*TokenSet, error) {
	player, err := s.playerRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup player: %w", err)
	}
	if !crypto.CheckPassword(password, player.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, player.ID)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenSet, error) {
	claims, err := s.jwtManager.Validate(refreshToken)
	if err != nil || claims.TokenType != jwtpkg.TokenTypeRefresh {
		return nil, ErrRefreshTokenInvalid
	}

	playerID, err := s.tokenStore.Lookup(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}
	if playerID == uuid.Nil || playerID.String() != claims.Subject {
		return nil, ErrRefreshTokenInvalid
	}

	if err := s.tokenStore.Revoke(ctx, claims.ID); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	return s.issue(ctx, playerID)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtManager.Validate(refreshToken)
	if err != nil || claims.TokenType != jwtpkg.TokenTypeRefresh {
		return ErrRefreshTokenInvalid
	}
	return s.tokenStore.Revoke(ctx, claims.ID)
}

func (s *authService) issue(ctx context.Context, playerID uuid.UUID) (*TokenSet, error) {
	access, err := s.jwtManager.GenerateAccessToken(playerID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, claims, err := s.jwtManager.GenerateRefreshToken(playerID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokenStore.Save(ctx, claims.ID, playerID, s.jwtManager.RefreshTokenTTL()); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &TokenSet{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}

var _ AuthService = (*authService)(nil)
