package httpapi

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"relay/internal/common"
	"relay/internal/server/models"
)

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var row documentRow
	if !decodeJSON(w, r, &row) {
		return
	}
	if row.ID == "" || row.GroupID == "" {
		writeError(w, http.StatusBadRequest, "document id and group id are required")
		return
	}

	doc, err := row.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid binary field encoding")
		return
	}

	member, err := s.membership(r, doc.GroupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if member == nil {
		writeError(w, http.StatusForbidden, "not a group member")
		return
	}

	doc.CreatedBy = userID(r.Context())
	if err := s.repos.Documents().Create(r.Context(), doc); err != nil {
		s.log.Error(r.Context(), "failed to create document", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("group_id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "group_id query parameter is required")
		return
	}

	member, err := s.membership(r, groupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if member == nil {
		writeError(w, http.StatusForbidden, "not a group member")
		return
	}

	docs, err := s.repos.Documents().ListByGroupID(r.Context(), groupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	rows := make([]documentRow, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, documentToRow(doc))
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleInsertDocumentKeys bulk-inserts wrapped key rows. The caller must
// be a member of the group of every referenced document. Existing rows
// are never overwritten; with ?on_conflict=ignore duplicates are skipped.
func (s *Server) handleInsertDocumentKeys(w http.ResponseWriter, r *http.Request) {
	var rows []wrappedKeyRow
	if !decodeJSON(w, r, &rows) {
		return
	}
	if len(rows) == 0 {
		writeError(w, http.StatusBadRequest, "empty key batch")
		return
	}

	keys := make([]*models.DocumentKey, 0, len(rows))
	seenDocs := make(map[string]bool)
	for i := range rows {
		key, err := rows[i].toModel()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid binary field encoding")
			return
		}
		if key.DocumentID == "" || key.DeviceID == "" {
			writeError(w, http.StatusBadRequest, "document id and device id are required")
			return
		}
		keys = append(keys, key)
		seenDocs[key.DocumentID] = true
	}

	for docID := range seenDocs {
		doc, err := s.repos.Documents().GetByID(r.Context(), docID)
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "no such document")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		member, err := s.membership(r, doc.GroupID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if member == nil {
			writeError(w, http.StatusForbidden, "not a group member")
			return
		}
	}

	ignoreDuplicates := r.URL.Query().Get("on_conflict") == "ignore"
	if err := s.repos.DocumentKeys().InsertBatch(r.Context(), keys, ignoreDuplicates); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			writeError(w, http.StatusConflict, "duplicate key row")
			return
		}
		s.log.Error(r.Context(), "failed to insert key batch", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// handleGetDocumentKey returns the wrapped row for (document, device).
// The device must belong to the caller: wrapped keys are only ever
// served to their intended recipient.
func (s *Server) handleGetDocumentKey(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("documentID")
	deviceID := r.PathValue("deviceID")

	device, err := s.repos.Devices().GetByID(r.Context(), deviceID)
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

	key, err := s.repos.DocumentKeys().Get(r.Context(), documentID, deviceID)
	if errors.Is(err, common.ErrorNotFound) {
		writeError(w, http.StatusNotFound, "no such key row")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, documentKeyToRow(key))
}
