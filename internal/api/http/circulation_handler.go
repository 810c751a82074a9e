package http

import (
	"net/http"

	"unilib-backend/internal/service"
	"unilib-backend/internal/utils"
)

type CirculationHandler struct {
	circulationSvc service.CirculationService
}

func NewCirculationHandler(circulationSvc service.CirculationService) *CirculationHandler {
	return &CirculationHandler{circulationSvc: circulationSvc}
}

type borrowRequest struct {
	UserID int32  `json:"user_id"`
	BookID int32  `json:"book_id"`
	Notes  string `json:"notes"`
}

func (h *CirculationHandler) BorrowBook(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	var req borrowRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	loan, err := h.circulationSvc.BorrowBook(r.Context(), actor, req.UserID, req.BookID, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

func (h *CirculationHandler) RequestRenewal(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	loanID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.circulationSvc.RequestRenewal(r.Context(), actor, loanID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "renewal requested"})
}

type extendRequest struct {
	NewDueDate string `json:"new_due_date"`
}

func (h *CirculationHandler) ExtendDueDate(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	loanID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req extendRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	newDueDate, err := utils.ParseDate(req.NewDueDate)
	if err != nil {
		writeError(w, err)
		return
	}

	loan, err := h.circulationSvc.ExtendDueDate(r.Context(), actor, loanID, newDueDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

type returnRequest struct {
	Condition string `json:"condition"`
	Notes     string `json:"notes"`
}

func (h *CirculationHandler) ReturnBook(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	loanID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req returnRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	outcome, err := h.circulationSvc.ReturnBook(r.Context(), actor, loanID, req.Condition, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *CirculationHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	loanID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	loan, err := h.circulationSvc.GetLoan(r.Context(), actor, loanID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (h *CirculationHandler) ListUserLoans(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	page := queryInt32(r, "page", 1)
	loans, total, err := h.circulationSvc.ListUserLoans(r.Context(), actor, userID, r.URL.Query().Get("open") == "true", page, queryInt32(r, "page_size", 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: loans, Total: total, Page: page})
}

func (h *CirculationHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}

	page := queryInt32(r, "page", 1)
	loans, total, err := h.circulationSvc.ListPending(r.Context(), page, queryInt32(r, "page_size", 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: loans, Total: total, Page: page})
}
