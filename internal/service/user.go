package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/defect-service/internal/lib/session"
	"github.com/deppfellow/defect-service/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// UserStore looks users up by the identity provider's subject.
type UserStore interface {
	GetByAuthID(ctx context.Context, authID string) (*model.User, error)
}

// UserService resolves the caller of a request into a registered user.
// Resolved users are cached in Redis for ttl; Redis failures fall through
// to the database.
type UserService struct {
	users  UserStore
	cache  redis.Cmdable
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewUserService(users UserStore, cache redis.Cmdable, ttl time.Duration, logger *zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func userCacheKey(subject string) string {
	return "defect:user:" + subject
}

// CurrentUser returns the user behind ctx's session, or nil when the
// request is anonymous or the subject is not registered.
func (s *UserService) CurrentUser(ctx context.Context) (*model.User, error) {
	subject, ok := session.SubjectFromContext(ctx)
	if !ok {
		return nil, nil
	}

	if user := s.cached(ctx, subject); user != nil {
		return user, nil
	}

	user, err := s.users.GetByAuthID(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current user: %w", err)
	}
	if user == nil {
		s.logger.Warn().Str("auth_id", subject).Msg("session subject has no registered user")
		return nil, nil
	}

	s.store(ctx, subject, user)
	return user, nil
}

func (s *UserService) cached(ctx context.Context, subject string) *model.User {
	if s.cache == nil || s.ttl <= 0 {
		return nil
	}

	raw, err := s.cache.Get(ctx, userCacheKey(subject)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("user cache read failed")
		}
		return nil
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		s.logger.Warn().Err(err).Msg("discarding malformed user cache entry")
		return nil
	}
	return &user
}

func (s *UserService) store(ctx context.Context, subject string, user *model.User) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, userCacheKey(subject), raw, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("user cache write failed")
	}
}
