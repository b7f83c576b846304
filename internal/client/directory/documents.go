package directory

import (
	"context"
	"net/url"

	"relay/internal/client/models"
)

// InsertDocument records the metadata row for a freshly encrypted
// document. Rows are immutable after creation.
func (c *Client) InsertDocument(ctx context.Context, sess *Session, doc *models.Document) error {
	row := documentToRow(doc)
	return c.do(ctx, sess, "POST", "/api/documents", nil, &row, nil)
}

// ListDocuments returns the metadata rows of every document in groupID.
func (c *Client) ListDocuments(ctx context.Context, sess *Session, groupID string) ([]*models.Document, error) {
	query := url.Values{"group_id": {groupID}}

	var rows []documentRow
	if err := c.do(ctx, sess, "GET", "/api/documents", query, nil, &rows); err != nil {
		return nil, err
	}

	docs := make([]*models.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.toModel()
		if err != nil {
			return nil, &DirectoryError{Status: 200, Message: err.Error()}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// InsertWrappedKeys bulk-inserts wrapped key rows. With ignoreDuplicates
// the directory skips rows whose (document, device) pair already exists
// instead of failing; existing rows are never overwritten either way.
func (c *Client) InsertWrappedKeys(ctx context.Context, sess *Session, entries []models.WrappedKeyEntry, ignoreDuplicates bool) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]wrappedKeyRow, 0, len(entries))
	for i := range entries {
		rows = append(rows, wrappedKeyToRow(&entries[i]))
	}

	var query url.Values
	if ignoreDuplicates {
		query = url.Values{"on_conflict": {"ignore"}}
	}
	return c.do(ctx, sess, "POST", "/api/document-keys", query, rows, nil)
}

// GetWrappedKey fetches the wrapped key row granting deviceID access to
// documentID. Absence surfaces as common.ErrorNotFound via errors.Is.
func (c *Client) GetWrappedKey(ctx context.Context, sess *Session, documentID, deviceID string) (*models.WrappedKeyEntry, error) {
	path := "/api/document-keys/" + url.PathEscape(documentID) + "/" + url.PathEscape(deviceID)

	var row wrappedKeyRow
	if err := c.do(ctx, sess, "GET", path, nil, nil, &row); err != nil {
		return nil, err
	}
	entry, err := row.toModel()
	if err != nil {
		return nil, &DirectoryError{Status: 200, Message: err.Error()}
	}
	return entry, nil
}
