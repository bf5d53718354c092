package service

import (
	"context"

	"github.com/deppfellow/defect-service/internal/errs"
	"github.com/deppfellow/defect-service/internal/model"
	"github.com/deppfellow/defect-service/internal/model/defect"
	"github.com/deppfellow/defect-service/internal/validation"
	"github.com/rs/zerolog"
)

// DefectStore persists defect records.
type DefectStore interface {
	// GetByID returns nil, nil when the record does not exist.
	GetByID(ctx context.Context, id int64) (*defect.DefectInfo, error)
	UpdateByID(ctx context.Context, req *defect.UpdateDefectRequest) (bool, error)
	FindByUserID(ctx context.Context, userID int64) ([]defect.DefectInfo, error)
	Query(ctx context.Context, req *defect.QueryDefectRequest) ([]defect.DefectInfo, error)
}

// Identity resolves the caller of a request. A nil user means the request
// is anonymous.
type Identity interface {
	CurrentUser(ctx context.Context) (*model.User, error)
}

// UpdateNotifier is told about every successful update.
type UpdateNotifier interface {
	DefectUpdated(ctx context.Context, before *defect.DefectInfo, req *defect.UpdateDefectRequest) error
}

// DefectOptions holds the access policy of DefectService.
type DefectOptions struct {
	// EnforceUpdateOwnership rejects updates from anyone but the owner.
	EnforceUpdateOwnership bool
}

// DefectService guards access to defect records: it validates requests,
// checks the caller against the owner of the records it reads and
// delegates persistence to a DefectStore.
type DefectService struct {
	store    DefectStore
	identity Identity
	notifier UpdateNotifier
	opts     DefectOptions
	logger   *zerolog.Logger
}

// NewDefectService builds the service. notifier may be nil.
func NewDefectService(store DefectStore, identity Identity, notifier UpdateNotifier, opts DefectOptions, logger *zerolog.Logger) *DefectService {
	return &DefectService{
		store:    store,
		identity: identity,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
	}
}

func invalidParams(message string) error {
	return errs.NewBadRequestError(message, false, nil, nil, nil)
}

func notLoggedIn() error {
	return errs.NewUnauthorizedError("Not logged in", false)
}

// currentUser resolves the caller or fails with NOT_LOGIN_ERROR.
func (s *DefectService) currentUser(ctx context.Context, operation string) (*model.User, error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logger.Warn().Str("operation", operation).Msg("rejected request without session")
		return nil, notLoggedIn()
	}
	return user, nil
}

// UpdateDefect applies req to the defect it names and reports whether a
// row changed.
func (s *DefectService) UpdateDefect(ctx context.Context, req *defect.UpdateDefectRequest) (bool, error) {
	if req == nil || req.ID <= 0 {
		return false, invalidParams("Defect id must be a positive number")
	}
	if err := validation.Check(req); err != nil {
		return false, err
	}

	var caller *model.User
	if s.opts.EnforceUpdateOwnership {
		user, err := s.currentUser(ctx, "update_defect")
		if err != nil {
			return false, err
		}
		caller = user
	}

	existing, err := s.store.GetByID(ctx, req.ID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, errs.NewNotFoundError("Defect not found", true, nil)
	}

	if caller != nil && caller.ID != existing.UserID {
		s.logger.Warn().
			Int64("user_id", caller.ID).
			Int64("defect_id", existing.ID).
			Msg("rejected update of a defect owned by another user")
		return false, notLoggedIn()
	}

	updated, err := s.store.UpdateByID(ctx, req)
	if err != nil {
		return false, err
	}

	s.logger.Info().
		Int64("defect_id", req.ID).
		Bool("updated", updated).
		Msg("defect update applied")

	if updated && s.notifier != nil {
		if err := s.notifier.DefectUpdated(ctx, existing, req); err != nil {
			s.logger.Error().Err(err).Int64("defect_id", req.ID).Msg("failed to enqueue defect update notification")
		}
	}

	return updated, nil
}

// SearchDefects returns the caller's defects matching req. req.UserID
// must name the caller.
func (s *DefectService) SearchDefects(ctx context.Context, req *defect.QueryDefectRequest) ([]defect.DefectInfoVO, error) {
	if ctx == nil {
		return nil, invalidParams("Request context is required")
	}

	user, err := s.currentUser(ctx, "search_defects")
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, invalidParams("Query is missing or malformed")
	}
	if user.ID != req.UserID {
		s.logger.Warn().
			Int64("user_id", user.ID).
			Int64("requested_user_id", req.UserID).
			Msg("rejected search of another user's defects")
		return nil, notLoggedIn()
	}
	// Filters are only validated once the caller is known to own the records.
	if err := validation.Check(req); err != nil {
		return nil, err
	}

	list, err := s.store.Query(ctx, req)
	if err != nil {
		return nil, err
	}
	return defect.ToViews(list), nil
}

// ListMyDefects returns every defect the caller owns.
func (s *DefectService) ListMyDefects(ctx context.Context) ([]defect.DefectInfoVO, error) {
	list, err := s.myDefects(ctx, "list_my_defects")
	if err != nil {
		return nil, err
	}
	return defect.ToViews(list), nil
}

// DefectStats summarizes the caller's defects.
func (s *DefectService) DefectStats(ctx context.Context) (*defect.DefectStatsVO, error) {
	list, err := s.myDefects(ctx, "defect_stats")
	if err != nil {
		return nil, err
	}
	stats := defect.Summarize(list)
	return &stats, nil
}

func (s *DefectService) myDefects(ctx context.Context, operation string) ([]defect.DefectInfo, error) {
	if ctx == nil {
		return nil, invalidParams("Request context is required")
	}

	user, err := s.currentUser(ctx, operation)
	if err != nil {
		return nil, err
	}

	return s.store.FindByUserID(ctx, user.ID)
}
