package http

import (
	"net/http"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/service"
)

type MembershipHandler struct {
	membershipSvc service.MembershipService
}

func NewMembershipHandler(membershipSvc service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipSvc: membershipSvc}
}

func (h *MembershipHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	var user domain.User
	if err := decodeBody(r, &user); err != nil {
		writeError(w, err)
		return
	}

	if err := h.membershipSvc.RegisterUser(r.Context(), actor, &user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *MembershipHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.membershipSvc.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *MembershipHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var user domain.User
	if err := decodeBody(r, &user); err != nil {
		writeError(w, err)
		return
	}
	user.ID = id

	if err := h.membershipSvc.UpdateUser(r.Context(), actor, &user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *MembershipHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.membershipSvc.DeactivateUser(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.UserStatusInactive)})
}

func (h *MembershipHandler) ReactivateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.membershipSvc.ReactivateUser(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.UserStatusActive)})
}

func (h *MembershipHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}

	page := queryInt32(r, "page", 1)
	var (
		users []domain.User
		total int32
		err   error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		users, total, err = h.membershipSvc.SearchUsers(r.Context(), q, page, queryInt32(r, "page_size", 20))
	} else {
		users, total, err = h.membershipSvc.ListUsers(r.Context(), r.URL.Query().Get("department"), page, queryInt32(r, "page_size", 20))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: users, Total: total, Page: page})
}
