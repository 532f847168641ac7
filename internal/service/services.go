package service

import (
	"github.com/deppfellow/registration-service/internal/lib/job"
	"github.com/deppfellow/registration-service/internal/repository"
	"github.com/deppfellow/registration-service/internal/server"
)

type Services struct {
	Registration *RegistrationService
	Job          *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	// A nil *JobService must not become a non-nil interface.
	var queue WelcomeEmailQueue
	if s.Job != nil {
		queue = s.Job
	}

	return &Services{
		Registration: NewRegistrationService(
			repos.Registrations,
			queue,
			s.Config.Observability.Logging.SlowQueryThreshold,
		),
		Job: s.Job,
	}, nil
}
