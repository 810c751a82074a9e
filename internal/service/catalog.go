package service

import (
	"context"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"
)

type catalogService struct {
	bookRepo     repository.BookRepository
	categoryRepo repository.CategoryRepository
	loanRepo     repository.LoanRepository
}

func NewCatalogService(
	bookRepo repository.BookRepository,
	categoryRepo repository.CategoryRepository,
	loanRepo repository.LoanRepository,
) CatalogService {
	return &catalogService{
		bookRepo:     bookRepo,
		categoryRepo: categoryRepo,
		loanRepo:     loanRepo,
	}
}

func (s *catalogService) AddBook(ctx context.Context, actor domain.Actor, book *domain.Book) error {
	if !actor.IsLibrarian() {
		return domain.NewValidationError(domain.ErrNotAuthorized, "adding a book requires librarian role")
	}
	if book.Title == "" {
		return domain.NewValidationError(domain.ErrInvalidInput, "title is required")
	}
	if book.TotalCopies < 0 {
		return domain.NewValidationError(domain.ErrInvalidInput, "total copies cannot be negative")
	}
	if _, err := s.categoryRepo.GetByID(ctx, book.CategoryID); err != nil {
		return err
	}

	// A new catalog entry starts with every copy on the shelf.
	book.AvailableCopies = book.TotalCopies
	book.Status = book.DerivedStatus()
	return s.bookRepo.Create(ctx, book)
}

func (s *catalogService) GetBook(ctx context.Context, id int32) (*domain.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

// UpdateBook edits bibliographic fields only. Copy counts move through
// circulation or CorrectCopyCounts, never through here.
func (s *catalogService) UpdateBook(ctx context.Context, actor domain.Actor, book *domain.Book) error {
	if !actor.IsLibrarian() {
		return domain.NewValidationError(domain.ErrNotAuthorized, "updating a book requires librarian role")
	}
	if book.Title == "" {
		return domain.NewValidationError(domain.ErrInvalidInput, "title is required")
	}
	if _, err := s.categoryRepo.GetByID(ctx, book.CategoryID); err != nil {
		return err
	}
	return s.bookRepo.Update(ctx, book)
}

func (s *catalogService) DeleteBook(ctx context.Context, actor domain.Actor, id int32) error {
	if !actor.IsLibrarian() {
		return domain.NewValidationError(domain.ErrNotAuthorized, "deleting a book requires librarian role")
	}
	open, err := s.loanRepo.CountOpenByBook(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return domain.NewValidationError(domain.ErrBookNotAvailable, "book %d has %d open loans", id, open)
	}
	return s.bookRepo.Delete(ctx, id)
}

func (s *catalogService) ListBooks(ctx context.Context, categoryID int32, page, pageSize int32) ([]domain.Book, int32, error) {
	return s.bookRepo.List(ctx, categoryID, normalizePage(page), normalizePageSize(pageSize))
}

func (s *catalogService) SearchBooks(ctx context.Context, query string, categoryID int32, page, pageSize int32) ([]domain.Book, int32, error) {
	return s.bookRepo.Search(ctx, query, categoryID, normalizePage(page), normalizePageSize(pageSize))
}

// SetMaintenance moves a book in or out of maintenance. Entering
// maintenance is only allowed when no copy is out.
func (s *catalogService) SetMaintenance(ctx context.Context, actor domain.Actor, bookID int32, on bool) error {
	if !actor.IsLibrarian() {
		return domain.NewValidationError(domain.ErrNotAuthorized, "changing book status requires librarian role")
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return err
	}

	if on {
		open, err := s.loanRepo.CountOpenByBook(ctx, bookID)
		if err != nil {
			return err
		}
		if open > 0 {
			return domain.NewValidationError(domain.ErrBookNotAvailable, "book %d has %d open loans and cannot enter maintenance", bookID, open)
		}
		return s.bookRepo.SetStatus(ctx, bookID, domain.BookStatusMaintenance)
	}

	book.Status = domain.BookStatusAvailable
	return s.bookRepo.SetStatus(ctx, bookID, book.DerivedStatus())
}

// CorrectCopyCounts is the administrative correction path. The available
// count is always derived from total minus open loans, so the invariant
// 0 <= available <= total holds by construction.
func (s *catalogService) CorrectCopyCounts(ctx context.Context, actor domain.Actor, bookID int32, totalCopies int32) error {
	if !actor.IsLibrarian() {
		return domain.NewValidationError(domain.ErrNotAuthorized, "correcting copy counts requires librarian role")
	}
	if totalCopies < 0 {
		return domain.NewValidationError(domain.ErrInvalidInput, "total copies cannot be negative")
	}

	open, err := s.loanRepo.CountOpenByBook(ctx, bookID)
	if err != nil {
		return err
	}
	if totalCopies < open {
		return domain.NewValidationError(domain.ErrInvalidInput, "total copies %d is below the %d copies currently on loan", totalCopies, open)
	}

	logger.InfoContext(ctx, "copy counts corrected", "book_id", bookID, "total_copies", totalCopies, "open_loans", open, "librarian_id", actor.UserID)
	return s.bookRepo.CorrectCopyCounts(ctx, bookID, totalCopies, totalCopies-open)
}

func (s *catalogService) CreateCategory(ctx context.Context, actor domain.Actor, category *domain.Category) error {
	if !actor.IsLibrarian() {
		return domain.NewValidationError(domain.ErrNotAuthorized, "creating a category requires librarian role")
	}
	if category.Name == "" {
		return domain.NewValidationError(domain.ErrInvalidInput, "category name is required")
	}
	return s.categoryRepo.Create(ctx, category)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogService) UpdateCategory(ctx context.Context, actor domain.Actor, category *domain.Category) error {
	if !actor.IsLibrarian() {
		return domain.NewValidationError(domain.ErrNotAuthorized, "updating a category requires librarian role")
	}
	if category.Name == "" {
		return domain.NewValidationError(domain.ErrInvalidInput, "category name is required")
	}
	return s.categoryRepo.Update(ctx, category)
}

func (s *catalogService) DeleteCategory(ctx context.Context, actor domain.Actor, id int32) error {
	if !actor.IsLibrarian() {
		return domain.NewValidationError(domain.ErrNotAuthorized, "deleting a category requires librarian role")
	}
	count, err := s.categoryRepo.CountBooks(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.NewValidationError(domain.ErrCategoryInUse, "category %d is referenced by %d books", id, count)
	}
	return s.categoryRepo.Delete(ctx, id)
}

func normalizePage(page int32) int32 {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePageSize(pageSize int32) int32 {
	if pageSize < 1 || pageSize > 100 {
		return 20
	}
	return pageSize
}
