// Package service contains the business logic. It sits between the
// handlers and the repositories: handlers pass it validated requests, it
// applies the access rules and calls the repositories.
package service

import (
	"github.com/deppfellow/defect-service/internal/lib/job"
	"github.com/deppfellow/defect-service/internal/repository"
	"github.com/deppfellow/defect-service/internal/server"
)

type Services struct {
	Auth   *AuthService
	User   *UserService
	Defect *DefectService
	Job    *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	authService := NewAuthService(s.Config.Auth)
	if s.Config.Primary.Env == "production" && authService.TestMode() {
		s.Logger.Warn().Msg("clerk development key in production: sessions come from a test instance")
	}

	userService := NewUserService(repos.User, s.Redis, s.Config.Defect.UserCacheTTL, s.Logger)

	var notifier UpdateNotifier
	if s.Job != nil {
		notifier = NewJobNotifier(s.Job.Client, repos.User)
	}

	defectLogger := s.Logger.With().Str("component", "defect_service").Logger()
	defectService := NewDefectService(
		repos.Defect,
		userService,
		notifier,
		DefectOptions{EnforceUpdateOwnership: s.Config.Defect.EnforceUpdateOwnership},
		&defectLogger,
	)

	return &Services{
		Auth:   authService,
		User:   userService,
		Defect: defectService,
		Job:    s.Job,
	}, nil
}
