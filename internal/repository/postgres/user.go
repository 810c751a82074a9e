package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, id_number, name, department, role, email, phone, status, created_on, updated_on`

func scanUser(row interface{ Scan(...any) error }, u *domain.User) error {
	return row.Scan(&u.ID, &u.IDNumber, &u.Name, &u.Department, &u.Role, &u.Email, &u.Phone, &u.Status, &u.CreatedOn, &u.UpdatedOn)
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id_number, name, department, role, email, phone, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, u.IDNumber, u.Name, u.Department, u.Role, u.Email, u.Phone, u.Status, time.Now(), time.Now()).Scan(&u.ID)
	if isUniqueViolation(err) {
		return domain.NewValidationError(domain.ErrInvalidInput, "id number %q already registered", u.IDNumber)
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewValidationError(domain.ErrRecordNotFound, "user %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByIDNumber(ctx context.Context, idNumber string) (*domain.User, error) {
	u := &domain.User{}
	err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id_number = $1`, idNumber), u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewValidationError(domain.ErrRecordNotFound, "user %q not found", idNumber)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET id_number=$1, name=$2, department=$3, role=$4, email=$5, phone=$6, updated_on=$7 WHERE id=$8`
	res, err := r.db.ExecContext(ctx, query, u.IDNumber, u.Name, u.Department, u.Role, u.Email, u.Phone, time.Now(), u.ID)
	if isUniqueViolation(err) {
		return domain.NewValidationError(domain.ErrInvalidInput, "id number %q already registered", u.IDNumber)
	}
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrRecordNotFound, "user %d not found", u.ID)
}

func (r *userRepository) SetStatus(ctx context.Context, id int32, status domain.UserStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET status=$1, updated_on=$2 WHERE id=$3`, status, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrRecordNotFound, "user %d not found", id)
}

func (r *userRepository) List(ctx context.Context, department string, page, pageSize int32) ([]domain.User, int32, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	argIdx := 1
	if department != "" {
		query += fmt.Sprintf(" WHERE department = $%d", argIdx)
		args = append(args, department)
		argIdx++
	}
	return r.queryUsers(ctx, query, args, argIdx, page, pageSize)
}

func (r *userRepository) Search(ctx context.Context, q string, page, pageSize int32) ([]domain.User, int32, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE (name ILIKE $1 OR id_number = $2)`
	args := []interface{}{"%" + q + "%", q}
	return r.queryUsers(ctx, query, args, 3, page, pageSize)
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args []interface{}, argIdx int, page, pageSize int32) ([]domain.User, int32, error) {
	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, count, rows.Err()
}
