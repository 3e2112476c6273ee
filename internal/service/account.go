package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/BloggingApp/posts-service/internal/repository"
	"github.com/BloggingApp/posts-service/internal/repository/postgres"
	"github.com/BloggingApp/posts-service/internal/repository/redisrepo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength    = 6
	minDisplayNameLength = 3
)

type accountService struct {
	logger     *zap.Logger
	repo       *repository.Repository
	token      Token
	bcryptCost int
	validate   *validator.Validate
}

func newAccountService(logger *zap.Logger, repo *repository.Repository, token Token, bcryptCost int) Account {
	return &accountService{
		logger:     logger,
		repo:       repo,
		token:      token,
		bcryptCost: bcryptCost,
		validate:   validator.New(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *accountService) Register(ctx context.Context, input dto.RegisterRequest) (*model.User, error) {
	email := normalizeEmail(input.Email)
	displayName := strings.TrimSpace(input.DisplayName)

	if email == "" || input.Password == "" || input.PasswordCheck == "" || displayName == "" {
		return nil, ErrMissingFields
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.Password != input.PasswordCheck {
		return nil, ErrPasswordMismatch
	}
	if utf8.RuneCountInString(displayName) < minDisplayNameLength {
		return nil, ErrDisplayNameTooShort
	}

	_, err := s.repo.Postgres.User.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, postgres.ErrNotFound) {
		s.logger.Sugar().Errorf("failed to find user by email: %s", err.Error())
		return nil, ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		s.logger.Sugar().Errorf("failed to hash password: %s", err.Error())
		return nil, ErrInternal
	}

	user, err := s.repo.Postgres.User.Create(ctx, model.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	})
	if err != nil {
		switch {
		case errors.Is(err, postgres.ErrDuplicateEmail):
			return nil, ErrEmailExists
		case errors.Is(err, postgres.ErrDuplicateDisplayName):
			return nil, ErrDisplayNameExists
		}
		s.logger.Sugar().Errorf("failed to create user: %s", err.Error())
		return nil, ErrInternal
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))

	return user, nil
}

func (s *accountService) Login(ctx context.Context, input dto.LoginRequest) (*dto.Profile, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.repo.Postgres.User.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrNoAccount
		}
		s.logger.Sugar().Errorf("failed to find user by email: %s", err.Error())
		return nil, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.token.Issue(user.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to issue token for user(%s): %s", user.ID.String(), err.Error())
		return nil, ErrInternal
	}

	profile := dto.NewProfile(token, user)
	return &profile, nil
}

// Authenticate resolves the user behind a token that is correctly signed,
// unexpired and not revoked. It does not check that the user still exists.
func (s *accountService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.verify(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

func (s *accountService) verify(ctx context.Context, token string) (*TokenClaims, error) {
	claims, err := s.token.Verify(token)
	if err != nil {
		return nil, err
	}

	if claims.TokenID != "" {
		revoked, err := s.repo.Redis.Default.Exists(ctx, redisrepo.RevokedTokenKey(claims.TokenID))
		if err != nil {
			s.logger.Sugar().Errorf("failed to check token(%s) revocation: %s", claims.TokenID, err.Error())
			return nil, ErrInternal
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	return claims, nil
}

func (s *accountService) GetCurrentUser(ctx context.Context, token string) (*dto.Profile, error) {
	userID, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Postgres.User.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	profile := dto.NewProfile(token, user)
	return &profile, nil
}

func (s *accountService) TokenIsValid(ctx context.Context, token string) bool {
	userID, err := s.Authenticate(ctx, token)
	if err != nil {
		return false
	}

	if _, err := s.repo.Postgres.User.FindByID(ctx, userID); err != nil {
		if !errors.Is(err, postgres.ErrNotFound) {
			s.logger.Sugar().Errorf("failed to find user(%s): %s", userID.String(), err.Error())
		}
		return false
	}

	return true
}

// Logout revokes the token until it would have expired anyway.
func (s *accountService) Logout(ctx context.Context, token string) error {
	claims, err := s.verify(ctx, token)
	if err != nil {
		return err
	}
	if claims.TokenID == "" {
		return ErrInvalidToken
	}

	var ttl time.Duration
	if !claims.ExpiresAt.IsZero() {
		ttl = time.Until(claims.ExpiresAt)
		if ttl <= 0 {
			return nil
		}
	}

	if err := s.repo.Redis.Default.Set(ctx, redisrepo.RevokedTokenKey(claims.TokenID), claims.UserID.String(), ttl); err != nil {
		s.logger.Sugar().Errorf("failed to revoke token(%s): %s", claims.TokenID, err.Error())
		return ErrInternal
	}

	return nil
}

// Delete removes the account. Posts it owns are kept without an owner.
func (s *accountService) Delete(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.Postgres.User.Delete(ctx, userID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Sugar().Errorf("failed to delete user(%s): %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	s.logger.Info("user deleted", zap.String("user_id", userID.String()), zap.Int("orphaned_posts", len(user.Posts)))

	return user, nil
}
