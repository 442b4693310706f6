package applications

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"vestiga-portal/internal/applications/entities"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRepository backs local development runs without a Postgres instance.
type SQLiteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewSQLiteRepository(dataSourceName string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS applications (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            id_number TEXT NOT NULL UNIQUE,
            address TEXT NOT NULL,
            mobile TEXT NOT NULL,
            email TEXT NOT NULL,
            photo TEXT,
            payment_status TEXT NOT NULL DEFAULT 'PENDING',
            created_at TEXT NOT NULL,
            updated_at TEXT NOT NULL
        )
    `)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *SQLiteRepository) Save(ctx context.Context, app entities.Application) (entities.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO applications (id, name, id_number, address, mobile, email, photo, payment_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, app.ID, app.Name, app.IDNumber, app.Address, app.Mobile, app.Email, app.Photo, app.PaymentStatus,
		app.CreatedAt.Format(time.RFC3339Nano), app.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueViolation(err) {
			return entities.Application{}, ErrDuplicateIDNumber
		}
		return entities.Application{}, err
	}
	return app, nil
}

func (r *SQLiteRepository) scanRow(row interface{ Scan(...any) error }) (entities.Application, error) {
	var app entities.Application
	var photo sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&app.ID, &app.Name, &app.IDNumber, &app.Address, &app.Mobile, &app.Email, &photo, &app.PaymentStatus, &createdAt, &updatedAt)
	if err != nil {
		return entities.Application{}, err
	}
	app.Photo = photo.String
	app.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	app.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return app, nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (entities.Application, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, id_number, address, mobile, email, photo, payment_status, created_at, updated_at
		FROM applications WHERE id = ?
	`, id)
	app, err := r.scanRow(row)
	if err != nil {
		return entities.Application{}, false
	}
	return app, true
}

func (r *SQLiteRepository) FindAll(ctx context.Context) []entities.Application {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, id_number, address, mobile, email, photo, payment_status, created_at, updated_at
		FROM applications ORDER BY created_at DESC
	`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var results []entities.Application
	for rows.Next() {
		if app, err := r.scanRow(rows); err == nil {
			results = append(results, app)
		}
	}
	return results
}

func (r *SQLiteRepository) Update(ctx context.Context, app entities.Application) (entities.Application, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE applications
		SET name = ?, id_number = ?, address = ?, mobile = ?, email = ?, photo = ?, payment_status = ?, updated_at = ?
		WHERE id = ?
	`, app.Name, app.IDNumber, app.Address, app.Mobile, app.Email, app.Photo, app.PaymentStatus,
		app.UpdatedAt.Format(time.RFC3339Nano), app.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.Application{}, true, ErrDuplicateIDNumber
		}
		return entities.Application{}, false, err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return entities.Application{}, false, nil
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, id_number, address, mobile, email, photo, payment_status, created_at, updated_at
		FROM applications WHERE id = ?
	`, app.ID)
	updated, err := r.scanRow(row)
	if err != nil {
		return entities.Application{}, false, err
	}
	return updated, true, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r *SQLiteRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) UpdatePaymentStatus(ctx context.Context, id string, status entities.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
		UPDATE applications SET payment_status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now().UTC().Format(time.RFC3339Nano), id)
	return err
}
