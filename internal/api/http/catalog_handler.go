package http

import (
	"net/http"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/service"
)

type CatalogHandler struct {
	catalogSvc service.CatalogService
}

func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

func (h *CatalogHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	var book domain.Book
	if err := decodeBody(r, &book); err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalogSvc.AddBook(r.Context(), actor, &book); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (h *CatalogHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	book, err := h.catalogSvc.GetBook(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *CatalogHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var book domain.Book
	if err := decodeBody(r, &book); err != nil {
		writeError(w, err)
		return
	}
	book.ID = id

	if err := h.catalogSvc.UpdateBook(r.Context(), actor, &book); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *CatalogHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalogSvc.DeleteBook(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *CatalogHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}

	page := queryInt32(r, "page", 1)
	var (
		books []domain.Book
		total int32
		err   error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		books, total, err = h.catalogSvc.SearchBooks(r.Context(), q, queryInt32(r, "category_id", 0), page, queryInt32(r, "page_size", 20))
	} else {
		books, total, err = h.catalogSvc.ListBooks(r.Context(), queryInt32(r, "category_id", 0), page, queryInt32(r, "page_size", 20))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: books, Total: total, Page: page})
}

type maintenanceRequest struct {
	On bool `json:"on"`
}

func (h *CatalogHandler) SetMaintenance(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req maintenanceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalogSvc.SetMaintenance(r.Context(), actor, id, req.On); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"maintenance": req.On})
}

type correctCopiesRequest struct {
	TotalCopies int32 `json:"total_copies"`
}

func (h *CatalogHandler) CorrectCopyCounts(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req correctCopiesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalogSvc.CorrectCopyCounts(r.Context(), actor, id, req.TotalCopies); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"total_copies": req.TotalCopies})
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	var category domain.Category
	if err := decodeBody(r, &category); err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalogSvc.CreateCategory(r.Context(), actor, &category); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}

	categories, err := h.catalogSvc.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var category domain.Category
	if err := decodeBody(r, &category); err != nil {
		writeError(w, err)
		return
	}
	category.ID = id

	if err := h.catalogSvc.UpdateCategory(r.Context(), actor, &category); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalogSvc.DeleteCategory(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
