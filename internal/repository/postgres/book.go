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

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

const bookColumns = `id, isbn, title, author, publisher, publish_year, category_id, total_copies, available_copies, status, created_on, updated_on`

func scanBook(row interface{ Scan(...any) error }, b *domain.Book) error {
	return row.Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Publisher, &b.PublishYear, &b.CategoryID, &b.TotalCopies, &b.AvailableCopies, &b.Status, &b.CreatedOn, &b.UpdatedOn)
}

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	query := `INSERT INTO books (isbn, title, author, publisher, publish_year, category_id, total_copies, available_copies, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	return r.db.QueryRowContext(ctx, query, b.ISBN, b.Title, b.Author, b.Publisher, b.PublishYear, b.CategoryID, b.TotalCopies, b.AvailableCopies, b.Status, time.Now(), time.Now()).Scan(&b.ID)
}

func (r *bookRepository) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	b := &domain.Book{}
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	err := scanBook(r.db.QueryRowContext(ctx, query, id), b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewValidationError(domain.ErrRecordNotFound, "book %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Update never writes the copy-count columns; those belong to circulation
// and to CorrectCopyCounts.
func (r *bookRepository) Update(ctx context.Context, b *domain.Book) error {
	query := `UPDATE books SET isbn=$1, title=$2, author=$3, publisher=$4, publish_year=$5, category_id=$6, updated_on=$7 WHERE id=$8`
	res, err := r.db.ExecContext(ctx, query, b.ISBN, b.Title, b.Author, b.Publisher, b.PublishYear, b.CategoryID, time.Now(), b.ID)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrRecordNotFound, "book %d not found", b.ID)
}

func (r *bookRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrRecordNotFound, "book %d not found", id)
}

func (r *bookRepository) List(ctx context.Context, categoryID int32, page, pageSize int32) ([]domain.Book, int32, error) {
	query := `SELECT ` + bookColumns + ` FROM books`
	args := []interface{}{}
	argIdx := 1
	if categoryID > 0 {
		query += fmt.Sprintf(" WHERE category_id = $%d", argIdx)
		args = append(args, categoryID)
		argIdx++
	}
	return r.queryBooks(ctx, query, args, argIdx, page, pageSize)
}

func (r *bookRepository) Search(ctx context.Context, q string, categoryID int32, page, pageSize int32) ([]domain.Book, int32, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE (title ILIKE $1 OR author ILIKE $1 OR isbn = $2)`
	args := []interface{}{"%" + q + "%", q}
	argIdx := 3
	if categoryID > 0 {
		query += fmt.Sprintf(" AND category_id = $%d", argIdx)
		args = append(args, categoryID)
		argIdx++
	}
	return r.queryBooks(ctx, query, args, argIdx, page, pageSize)
}

func (r *bookRepository) queryBooks(ctx context.Context, query string, args []interface{}, argIdx int, page, pageSize int32) ([]domain.Book, int32, error) {
	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query += fmt.Sprintf(" ORDER BY title ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, 0, err
		}
		books = append(books, b)
	}
	return books, count, rows.Err()
}

func (r *bookRepository) SetStatus(ctx context.Context, id int32, status domain.BookStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE books SET status=$1, updated_on=$2 WHERE id=$3`, status, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrRecordNotFound, "book %d not found", id)
}

func (r *bookRepository) CorrectCopyCounts(ctx context.Context, id int32, totalCopies, availableCopies int32) error {
	query := `UPDATE books SET total_copies=$1, available_copies=$2,
	          status = CASE WHEN status = 'MAINTENANCE' THEN status WHEN $2 = 0 THEN 'BORROWED' ELSE 'AVAILABLE' END,
	          updated_on=$3 WHERE id=$4`
	res, err := r.db.ExecContext(ctx, query, totalCopies, availableCopies, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrRecordNotFound, "book %d not found", id)
}

// requireRow converts a zero-row update into a typed validation error.
func requireRow(res sql.Result, kind domain.ErrorKind, format string, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewValidationError(kind, format, args...)
	}
	return nil
}
