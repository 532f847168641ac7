package service

//go:generate mockgen -source=registration.go -destination=mocks/mock_registration.go -package=mocks WelcomeEmailQueue

import (
	"context"
	"time"

	"github.com/deppfellow/registration-service/internal/errs"
	"github.com/deppfellow/registration-service/internal/model"
	"github.com/deppfellow/registration-service/internal/repository"
	"github.com/rs/zerolog"
)

// WelcomeEmailQueue schedules the welcome email. *job.JobService satisfies it.
type WelcomeEmailQueue interface {
	EnqueueWelcomeEmail(ctx context.Context, to, firstName string) error
}

type RegistrationService struct {
	repo     repository.RegistrationRepository
	queue    WelcomeEmailQueue
	slowSave time.Duration
}

// NewRegistrationService wires the service. queue may be nil, in which case
// no welcome email is scheduled. Saves slower than slowSave are logged at
// warn; zero disables that.
func NewRegistrationService(repo repository.RegistrationRepository, queue WelcomeEmailQueue, slowSave time.Duration) *RegistrationService {
	return &RegistrationService{repo: repo, queue: queue, slowSave: slowSave}
}

// Register persists a validated request and schedules the welcome email.
//
// The save is attempted exactly once. A failure to enqueue the email is
// logged and does not fail the registration.
func (s *RegistrationService) Register(ctx context.Context, req *model.RegisterRequest) (*model.Registration, error) {
	logger := zerolog.Ctx(ctx)

	reg, err := req.ToRegistration()
	if err != nil {
		return nil, errs.NewStorageError(err, nil)
	}

	saveStart := time.Now()
	if err := s.repo.Save(ctx, reg); err != nil {
		return nil, err
	}
	saveDuration := time.Since(saveStart)

	event := logger.Info()
	if s.slowSave > 0 && saveDuration > s.slowSave {
		event = logger.Warn().Bool("slow", true)
	}
	event.
		Str("registration_id", reg.ID).
		Str("involvement", reg.Involvement).
		Int("specialties", len(reg.Specialties)).
		Dur("save_duration", saveDuration).
		Msg("registration saved")

	if s.queue != nil {
		if err := s.queue.EnqueueWelcomeEmail(ctx, reg.Email, reg.FirstName); err != nil {
			logger.Warn().
				Err(err).
				Str("registration_id", reg.ID).
				Msg("failed to schedule welcome email")
		}
	}

	return reg, nil
}

// Ping reports whether the registration store is reachable.
func (s *RegistrationService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
