package httpapi

import (
	"errors"
	"net/http"

	"relay/internal/common"
	"relay/internal/server/models"
)

// membership returns the caller's membership row for groupID, or nil.
func (s *Server) membership(r *http.Request, groupID string) (*models.GroupMember, error) {
	member, err := s.repos.Groups().GetMember(r.Context(), groupID, userID(r.Context()))
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return member, err
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "group name is required")
		return
	}

	group, err := s.repos.Groups().Create(r.Context(), &models.Group{Name: req.Name})
	if err != nil {
		s.log.Error(r.Context(), "failed to create group", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	admin := &models.GroupMember{
		GroupID: group.ID,
		UserID:  userID(r.Context()),
		Role:    models.RoleAdmin,
	}
	if err := s.repos.Groups().AddMember(r.Context(), admin); err != nil {
		s.log.Error(r.Context(), "failed to add group admin", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, groupRow{ID: group.ID, Name: group.Name})
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.repos.Groups().ListByUserID(r.Context(), userID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	rows := make([]groupRow, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, groupRow{ID: group.ID, Name: group.Name})
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleListGroupMembers(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")

	member, err := s.membership(r, groupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if member == nil {
		writeError(w, http.StatusForbidden, "not a group member")
		return
	}

	members, err := s.repos.Groups().ListMembers(r.Context(), groupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	rows := make([]memberRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, memberRow{UserID: m.UserID, Role: m.Role})
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleAddGroupMember adds a user to a group. Only admins may invite.
func (s *Server) handleAddGroupMember(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")

	var req memberRow
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleMember
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleMember {
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}

	member, err := s.membership(r, groupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if member == nil || member.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "only group admins may invite")
		return
	}

	add := &models.GroupMember{GroupID: groupID, UserID: req.UserID, Role: req.Role}
	if err := s.repos.Groups().AddMember(r.Context(), add); err != nil {
		s.log.Error(r.Context(), "failed to add group member", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusCreated)
}
