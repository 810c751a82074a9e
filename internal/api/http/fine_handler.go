package http

import (
	"net/http"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/service"
)

type FineHandler struct {
	fineSvc service.FineService
}

func NewFineHandler(fineSvc service.FineService) *FineHandler {
	return &FineHandler{fineSvc: fineSvc}
}

type payRequest struct {
	Method string `json:"method"`
	Notes  string `json:"notes"`
}

func (h *FineHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	fineID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req payRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	fine, err := h.fineSvc.MarkPaid(r.Context(), actor, fineID, req.Method, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fine)
}

type waiveRequest struct {
	Reason string `json:"reason"`
}

func (h *FineHandler) Waive(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	fineID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req waiveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	fine, err := h.fineSvc.Waive(r.Context(), actor, fineID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fine)
}

func (h *FineHandler) GetFine(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}
	fineID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	fine, err := h.fineSvc.GetFine(r.Context(), fineID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fine)
}

func (h *FineHandler) ListUserFines(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	page := queryInt32(r, "page", 1)
	status := domain.FineStatus(r.URL.Query().Get("status"))
	fines, total, err := h.fineSvc.ListUserFines(r.Context(), userID, status, page, queryInt32(r, "page_size", 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: fines, Total: total, Page: page})
}

func (h *FineHandler) OutstandingTotal(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	total, err := h.fineSvc.OutstandingTotal(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"outstanding_total": total.StringFixed(2)})
}
