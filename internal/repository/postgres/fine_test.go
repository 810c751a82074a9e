package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"unilib-backend/internal/domain"
)

func TestFineRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewFineRepository(db)
	ctx := context.Background()

	fine := &domain.Fine{
		LoanID:    5,
		UserID:    1,
		Amount:    decimal.RequireFromString("12.00"),
		Status:    domain.FineStatusUnpaid,
		CreatedAt: time.Date(2026, 3, 20, 10, 30, 0, 0, time.UTC),
	}

	mock.ExpectQuery("INSERT INTO fines").
		WithArgs(fine.LoanID, fine.UserID, fine.Amount, fine.Status, fine.PaymentMethod, fine.Notes, fine.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	err = repo.Create(ctx, fine)
	assert.NoError(t, err)
	assert.Equal(t, int32(9), fine.ID)
}

func TestFineRepository_MarkPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewFineRepository(db)
	ctx := context.Background()
	paymentDate := time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC)

	t.Run("Unpaid fine is updated", func(t *testing.T) {
		mock.ExpectExec("UPDATE fines").
			WithArgs(paymentDate, "cash", "", int32(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.MarkPaid(ctx, 9, paymentDate, "cash", "")
		assert.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("Terminal fine is not matched", func(t *testing.T) {
		mock.ExpectExec("UPDATE fines").
			WithArgs(paymentDate, "cash", "", int32(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.MarkPaid(ctx, 9, paymentDate, "cash", "")
		assert.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestFineRepository_Waive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewFineRepository(db)
	ctx := context.Background()
	paymentDate := time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE fines").
		WithArgs(paymentDate, "waived: damaged in flood", int32(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.Waive(ctx, 9, paymentDate, "damaged in flood")
	assert.NoError(t, err)
	assert.True(t, updated)
}

func TestFineRepository_OutstandingTotal(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewFineRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM fines").
		WithArgs(int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("24.00"))

	total, err := repo.OutstandingTotal(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("24.00")))
}
