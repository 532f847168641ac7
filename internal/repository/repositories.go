package repository

import (
	"fmt"

	"github.com/deppfellow/registration-service/internal/config"
	"github.com/deppfellow/registration-service/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Registrations RegistrationRepository
}

// NewRepositories picks the registration store matching storage.backend.
func NewRepositories(s *server.Server) (*Repositories, error) {
	switch s.Config.Storage.Backend {
	case config.BackendPostgres:
		if s.DB == nil {
			return nil, fmt.Errorf("postgres backend selected but no database pool is open")
		}
		return &Repositories{
			Registrations: NewPostgresRegistrationRepository(s.DB.Pool, s.Logger),
		}, nil
	case config.BackendMongo:
		if s.Mongo == nil {
			return nil, fmt.Errorf("mongo backend selected but no mongo client is open")
		}
		return &Repositories{
			Registrations: NewMongoRegistrationRepository(s.Mongo.DB, s.Logger),
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", s.Config.Storage.Backend)
	}
}
