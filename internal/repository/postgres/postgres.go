package postgres

import (
	"database/sql"

	"unilib-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookRepository
	repository.CategoryRepository
	repository.UserRepository
	repository.LoanRepository
	repository.FineRepository
	repository.SettingRepository
	repository.NotificationRepository
	repository.ReportRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		BookRepository:         NewBookRepository(db),
		CategoryRepository:     NewCategoryRepository(db),
		UserRepository:         NewUserRepository(db),
		LoanRepository:         NewLoanRepository(db),
		FineRepository:         NewFineRepository(db),
		SettingRepository:      NewSettingRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		ReportRepository:       NewReportRepository(db),
	}
}
