package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/deppfellow/registration-service/internal/database"
	"github.com/deppfellow/registration-service/internal/model"
	"github.com/deppfellow/registration-service/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PostgresRegistrationRepository stores registrations as rows of the users table.
// specialties is kept as a JSON array in a TEXT column.
type PostgresRegistrationRepository struct {
	pool *pgxpool.Pool
	log  *zerolog.Logger
}

func NewPostgresRegistrationRepository(pool *pgxpool.Pool, logger *zerolog.Logger) *PostgresRegistrationRepository {
	return &PostgresRegistrationRepository{pool: pool, log: logger}
}

func (r *PostgresRegistrationRepository) InitSchema(ctx context.Context) error {
	if err := database.Migrate(ctx, r.log, r.pool); err != nil {
		return fmt.Errorf("initialize %s table: %w", TableName, err)
	}
	return nil
}

const insertRegistration = `
	INSERT INTO users (
		email, "firstName", "lastName", country, "mobileNumber",
		province, city, postcode, involvement, specialties, referral
	) VALUES (
		@email, @firstName, @lastName, @country, @mobileNumber,
		@province, @city, @postcode, @involvement, @specialties, @referral
	)
	RETURNING id`

func (r *PostgresRegistrationRepository) Save(ctx context.Context, reg *model.Registration) error {
	specialties, err := reg.Specialties.Encode()
	if err != nil {
		return sqlerr.HandleError(fmt.Errorf("encode specialties: %w", err))
	}

	args := pgx.NamedArgs{
		"email":        reg.Email,
		"firstName":    reg.FirstName,
		"lastName":     reg.LastName,
		"country":      reg.Country,
		"mobileNumber": reg.MobileNumber,
		"province":     reg.Province,
		"city":         reg.City,
		"postcode":     reg.Postcode,
		"involvement":  reg.Involvement,
		"specialties":  specialties,
		"referral":     reg.Referral,
	}

	var id int64
	if err := r.pool.QueryRow(ctx, insertRegistration, args).Scan(&id); err != nil {
		return sqlerr.HandleError(fmt.Errorf("insert registration: %w", err))
	}

	reg.ID = strconv.FormatInt(id, 10)
	return nil
}

func (r *PostgresRegistrationRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
