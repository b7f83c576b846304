package httpapi

import (
	"errors"
	"net/http"

	"relay/internal/common"
	"relay/internal/server/models"
)

func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		PublicKey string `json:"public_key"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	publicKey, err := common.DecodeBytea(req.PublicKey)
	if err != nil || len(publicKey) == 0 {
		writeError(w, http.StatusBadRequest, "invalid public key encoding")
		return
	}

	device := &models.Device{
		UserID:    userID(r.Context()),
		PublicKey: publicKey,
		Name:      req.Name,
	}

	device, err = s.repos.Devices().Create(r.Context(), device)
	if err != nil {
		s.log.Error(r.Context(), "failed to create device", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, deviceToRow(device))
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	device, err := s.repos.Devices().GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, common.ErrorNotFound) {
		writeError(w, http.StatusNotFound, "no such device")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, deviceToRow(device))
}

// handlePatchDevice replaces the published public key. Only the device
// owner may do this.
func (s *Server) handlePatchDevice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PublicKey string `json:"public_key"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	publicKey, err := common.DecodeBytea(req.PublicKey)
	if err != nil || len(publicKey) == 0 {
		writeError(w, http.StatusBadRequest, "invalid public key encoding")
		return
	}

	id := r.PathValue("id")
	device, err := s.repos.Devices().GetByID(r.Context(), id)
	if errors.Is(err, common.ErrorNotFound) {
		writeError(w, http.StatusNotFound, "no such device")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if device.UserID != userID(r.Context()) {
		writeError(w, http.StatusForbidden, "not your device")
		return
	}

	if err := s.repos.Devices().UpdatePublicKey(r.Context(), id, publicKey); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	userIDs := r.URL.Query()["user_id"]
	if len(userIDs) == 0 {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	devices, err := s.repos.Devices().ListByUserIDs(r.Context(), userIDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	rows := make([]deviceRow, 0, len(devices))
	for _, device := range devices {
		rows = append(rows, deviceToRow(device))
	}
	writeJSON(w, http.StatusOK, rows)
}
