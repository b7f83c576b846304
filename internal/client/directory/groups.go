package directory

import (
	"context"
	"net/url"

	"relay/internal/client/models"
)

type groupRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type memberRow struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// CreateGroup creates a sharing group; the caller becomes its admin.
func (c *Client) CreateGroup(ctx context.Context, sess *Session, name string) (*models.Group, error) {
	req := struct {
		Name string `json:"name"`
	}{Name: name}

	var row groupRow
	if err := c.do(ctx, sess, "POST", "/api/groups", nil, &req, &row); err != nil {
		return nil, err
	}
	if row.ID == "" {
		return nil, &DirectoryError{Status: 200, Message: "group response missing id"}
	}
	return &models.Group{ID: row.ID, Name: row.Name}, nil
}

// ListGroups returns the groups the session user belongs to.
func (c *Client) ListGroups(ctx context.Context, sess *Session) ([]*models.Group, error) {
	var rows []groupRow
	if err := c.do(ctx, sess, "GET", "/api/groups", nil, nil, &rows); err != nil {
		return nil, err
	}

	groups := make([]*models.Group, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, &models.Group{ID: row.ID, Name: row.Name})
	}
	return groups, nil
}

// ListGroupMembers returns the membership of groupID.
func (c *Client) ListGroupMembers(ctx context.Context, sess *Session, groupID string) ([]*models.GroupMember, error) {
	var rows []memberRow
	path := "/api/groups/" + url.PathEscape(groupID) + "/members"
	if err := c.do(ctx, sess, "GET", path, nil, nil, &rows); err != nil {
		return nil, err
	}

	members := make([]*models.GroupMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, &models.GroupMember{UserID: row.UserID, Role: row.Role})
	}
	return members, nil
}

// AddGroupMember adds userID to groupID with the given role.
func (c *Client) AddGroupMember(ctx context.Context, sess *Session, groupID, userID, role string) error {
	req := memberRow{UserID: userID, Role: role}
	path := "/api/groups/" + url.PathEscape(groupID) + "/members"
	return c.do(ctx, sess, "POST", path, nil, &req, nil)
}
