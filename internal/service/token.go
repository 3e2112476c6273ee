package service

import (
	"time"

	"github.com/BloggingApp/posts-service/internal/config"
	"github.com/BloggingApp/posts-service/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenClaims struct {
	UserID    uuid.UUID
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time // zero for tokens without expiry
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokenService(cfg config.AuthConfig) *tokenService {
	return &tokenService{
		secret: cfg.Secret,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
}

func (s *tokenService) Issue(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"id":  userID.String(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
	}
	if s.ttl > 0 {
		claims["exp"] = now.Add(s.ttl).Unix()
	}

	return utils.EncodeJWT(claims, s.secret)
}

func (s *tokenService) Verify(token string) (*TokenClaims, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	claims, err := utils.DecodeJWT(token, s.secret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	idString, ok := claims["id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(idString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	result := &TokenClaims{UserID: userID}
	result.TokenID, _ = claims["jti"].(string)

	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		result.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}

	return result, nil
}
