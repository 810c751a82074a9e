package http

import (
	"net/http"

	"unilib-backend/internal/service"
)

type SettingsHandler struct {
	policySvc service.PolicyService
	noteSvc   service.NotificationService
}

func NewSettingsHandler(policySvc service.PolicyService, noteSvc service.NotificationService) *SettingsHandler {
	return &SettingsHandler{policySvc: policySvc, noteSvc: noteSvc}
}

func (h *SettingsHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}

	settings, err := h.policySvc.ListSettings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type updateSettingRequest struct {
	Value string `json:"value"`
}

func (h *SettingsHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	var req updateSettingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	key := muxVar(r, "key")
	if err := h.policySvc.UpdateSetting(r.Context(), actor, key, req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

func (h *SettingsHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}

	page := queryInt32(r, "page", 1)
	notes, total, err := h.noteSvc.GetNotifications(r.Context(), actor.UserID, page, queryInt32(r, "page_size", 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: notes, Total: total, Page: page})
}

func (h *SettingsHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.noteSvc.MarkAsRead(r.Context(), actor.UserID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
