package applications

import (
	"context"
	"errors"
	"time"

	"vestiga-portal/internal/applications/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	repo := &PostgresRepository{pool: pool}
	if err := repo.createTableIfNotExists(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

func (r *PostgresRepository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

func (r *PostgresRepository) createTableIfNotExists(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS applications (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            id_number TEXT NOT NULL UNIQUE,
            address TEXT NOT NULL,
            mobile TEXT NOT NULL,
            email TEXT NOT NULL,
            photo TEXT,
            payment_status TEXT NOT NULL DEFAULT 'PENDING',
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        )
    `)
	return err
}

func (r *PostgresRepository) Save(ctx context.Context, app entities.Application) (entities.Application, error) {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO applications (id, name, id_number, address, mobile, email, photo, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, app.ID, app.Name, app.IDNumber, app.Address, app.Mobile, app.Email, app.Photo, app.PaymentStatus, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entities.Application{}, ErrDuplicateIDNumber
		}
		return entities.Application{}, err
	}
	return app, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (entities.Application, bool) {
	var app entities.Application
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, id_number, address, mobile, email, COALESCE(photo, ''), payment_status, created_at, updated_at
		FROM applications
		WHERE id = $1
	`, id).Scan(&app.ID, &app.Name, &app.IDNumber, &app.Address, &app.Mobile, &app.Email, &app.Photo, &app.PaymentStatus, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return entities.Application{}, false
	}
	return app, true
}

func (r *PostgresRepository) FindAll(ctx context.Context) []entities.Application {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, id_number, address, mobile, email, COALESCE(photo, ''), payment_status, created_at, updated_at
		FROM applications
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var results []entities.Application
	for rows.Next() {
		var app entities.Application
		err := rows.Scan(&app.ID, &app.Name, &app.IDNumber, &app.Address, &app.Mobile, &app.Email, &app.Photo, &app.PaymentStatus, &app.CreatedAt, &app.UpdatedAt)
		if err == nil {
			results = append(results, app)
		}
	}
	return results
}

func (r *PostgresRepository) Update(ctx context.Context, app entities.Application) (entities.Application, bool, error) {
	app.UpdatedAt = time.Now().UTC()

	tag, err := r.pool.Exec(ctx, `
		UPDATE applications
		SET name = $2, id_number = $3, address = $4, mobile = $5, email = $6, photo = $7, payment_status = $8, updated_at = $9
		WHERE id = $1
	`, app.ID, app.Name, app.IDNumber, app.Address, app.Mobile, app.Email, app.Photo, app.PaymentStatus, app.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entities.Application{}, true, ErrDuplicateIDNumber
		}
		return entities.Application{}, false, err
	}
	if tag.RowsAffected() == 0 {
		return entities.Application{}, false, nil
	}

	updated, _ := r.FindByID(ctx, app.ID)
	return updated, true, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepository) UpdatePaymentStatus(ctx context.Context, id string, status entities.PaymentStatus) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE applications
		SET payment_status = $2, updated_at = $3
		WHERE id = $1
	`, id, status, time.Now().UTC())
	return err
}
