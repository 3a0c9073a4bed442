package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adiwidodo/member-portal/internal/domain/entity"
	"github.com/adiwidodo/member-portal/internal/domain/repository"
)

type UserTypeRepository struct {
	pool *pgxpool.Pool
}

func NewUserTypeRepository(pool *pgxpool.Pool) *UserTypeRepository {
	return &UserTypeRepository{pool: pool}
}

func (r *UserTypeRepository) Create(ctx context.Context, t *entity.UserType) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_types (name)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`, t.Name)
	return row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *UserTypeRepository) GetByID(ctx context.Context, id int64) (*entity.UserType, error) {
	t := &entity.UserType{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at
		FROM user_types
		WHERE id = $1
	`, id)

	if err := row.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *UserTypeRepository) List(ctx context.Context) ([]entity.UserType, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM user_types
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.UserType
	for rows.Next() {
		var t entity.UserType
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *UserTypeRepository) Update(ctx context.Context, t *entity.UserType) error {
	t.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE user_types
		SET name = $1, updated_at = $2
		WHERE id = $3
	`, t.Name, t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the type; the ON DELETE CASCADE on user_type_members
// detaches it from every member.
func (r *UserTypeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM user_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserTypeRepository) Assign(ctx context.Context, userID, typeID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_type_members (user_type_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_type_id, user_id) DO NOTHING
	`, typeID, userID)
	return err
}

var _ repository.UserTypeRepository = (*UserTypeRepository)(nil)
