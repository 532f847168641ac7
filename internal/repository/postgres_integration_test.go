//go:build integration

package repository_test

import (
	"context"
	"testing"

	"github.com/deppfellow/registration-service/internal/model"
	"github.com/deppfellow/registration-service/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

type PostgresRepositorySuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	repo      *repository.PostgresRegistrationRepository
}

func TestPostgresRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRepositorySuite))
}

func (s *PostgresRepositorySuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("registration"),
		tcpostgres.WithUsername("registration"),
		tcpostgres.WithPassword("registration"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.pool, err = pgxpool.New(ctx, dsn)
	s.Require().NoError(err)

	logger := zerolog.Nop()
	s.repo = repository.NewPostgresRegistrationRepository(s.pool, &logger)
	s.Require().NoError(s.repo.InitSchema(ctx))
}

func (s *PostgresRepositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.Require().NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *PostgresRepositorySuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE TABLE users RESTART IDENTITY")
	s.Require().NoError(err)
}

func (s *PostgresRepositorySuite) TestInitSchemaIsIdempotent() {
	ctx := context.Background()

	s.Require().NoError(s.repo.InitSchema(ctx))
	s.Require().NoError(s.repo.InitSchema(ctx))

	var tables int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM information_schema.tables WHERE table_name = 'users'`).Scan(&tables)
	s.Require().NoError(err)
	s.Equal(1, tables)
}

func (s *PostgresRepositorySuite) TestColumnsMatchPayloadFields() {
	rows, err := s.pool.Query(context.Background(),
		`SELECT column_name FROM information_schema.columns WHERE table_name = 'users'`)
	s.Require().NoError(err)

	columns, err := pgx.CollectRows(rows, pgx.RowTo[string])
	s.Require().NoError(err)

	s.ElementsMatch([]string{
		"id", "email", "firstName", "lastName", "country", "mobileNumber",
		"province", "city", "postcode", "involvement", "specialties", "referral",
	}, columns)
}

func (s *PostgresRepositorySuite) TestSaveAndReadBack() {
	ctx := context.Background()
	city := "Springfield"
	reg := &model.Registration{
		Email:        "a@b.com",
		FirstName:    "A",
		LastName:     "B",
		Country:      "X",
		MobileNumber: "123",
		City:         &city,
		Involvement:  "volunteer",
		Specialties:  model.Specialties{"design", `quote "and" comma,`},
		Referral:     "friend",
	}

	s.Require().NoError(s.repo.Save(ctx, reg))
	s.Equal("1", reg.ID)

	var (
		email, firstName  string
		province, gotCity *string
		specialties       model.Specialties
	)
	err := s.pool.QueryRow(ctx,
		`SELECT email, "firstName", province, city, specialties FROM users WHERE id = $1`, 1,
	).Scan(&email, &firstName, &province, &gotCity, &specialties)
	s.Require().NoError(err)

	s.Equal("a@b.com", email)
	s.Equal("A", firstName)
	s.Nil(province)
	s.Require().NotNil(gotCity)
	s.Equal("Springfield", *gotCity)
	s.Equal(reg.Specialties, specialties)
}

func (s *PostgresRepositorySuite) TestDuplicateEmailsAreAllowed() {
	ctx := context.Background()

	for range 2 {
		reg := &model.Registration{
			Email: "dup@b.com", FirstName: "A", LastName: "B", Country: "X",
			MobileNumber: "1", Involvement: "v", Specialties: model.Specialties{}, Referral: "r",
		}
		s.Require().NoError(s.repo.Save(ctx, reg))
	}

	var count int
	s.Require().NoError(s.pool.QueryRow(ctx,
		`SELECT count(*) FROM users WHERE email = 'dup@b.com'`).Scan(&count))
	s.Equal(2, count)
}

func (s *PostgresRepositorySuite) TestSaveOnClosedPoolIsStorageError() {
	ctx := context.Background()
	dsn, err := s.container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	closed, err := pgxpool.New(ctx, dsn)
	s.Require().NoError(err)
	closed.Close()

	logger := zerolog.Nop()
	repo := repository.NewPostgresRegistrationRepository(closed, &logger)

	err = repo.Save(ctx, &model.Registration{Email: "a@b.com"})
	s.Require().Error(err)
	s.Contains(err.Error(), "Internal Server Error")
}
