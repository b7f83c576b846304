package directory

import (
	"context"
	"net/url"

	"relay/internal/client/models"
	"relay/internal/common"
)

// GetDeviceByID fetches one device record, mainly to confirm that a
// locally stored identity is still known to the directory.
func (c *Client) GetDeviceByID(ctx context.Context, sess *Session, deviceID string) (*models.DirectoryDevice, error) {
	var row deviceRow
	if err := c.do(ctx, sess, "GET", "/api/devices/"+url.PathEscape(deviceID), nil, nil, &row); err != nil {
		return nil, err
	}
	dev, err := row.toModel()
	if err != nil {
		return nil, &DirectoryError{Status: 200, Message: err.Error()}
	}
	return dev, nil
}

// CreateDevice registers a new device with its public key and returns the
// directory-assigned device id.
func (c *Client) CreateDevice(ctx context.Context, sess *Session, name string, publicKey []byte) (string, error) {
	req := struct {
		Name      string `json:"name"`
		PublicKey string `json:"public_key"`
	}{Name: name, PublicKey: common.EncodeBytea(publicKey)}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, sess, "POST", "/api/devices", nil, &req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", &DirectoryError{Status: 200, Message: "device response missing id"}
	}
	return resp.ID, nil
}

// PatchDevicePublicKey overwrites the published public key for deviceID.
// Idempotent; used to heal directory drift.
func (c *Client) PatchDevicePublicKey(ctx context.Context, sess *Session, deviceID string, publicKey []byte) error {
	req := struct {
		PublicKey string `json:"public_key"`
	}{PublicKey: common.EncodeBytea(publicKey)}
	return c.do(ctx, sess, "PATCH", "/api/devices/"+url.PathEscape(deviceID), nil, &req, nil)
}

// ListDevicesForUsers returns every device belonging to any of userIDs.
// A row whose public key does not decode is kept with a nil key rather
// than failing the whole list; wrap-time code accounts for it per device.
func (c *Client) ListDevicesForUsers(ctx context.Context, sess *Session, userIDs []string) ([]*models.DirectoryDevice, error) {
	query := url.Values{}
	for _, id := range userIDs {
		query.Add("user_id", id)
	}

	var rows []deviceRow
	if err := c.do(ctx, sess, "GET", "/api/devices", query, nil, &rows); err != nil {
		return nil, err
	}

	devices := make([]*models.DirectoryDevice, 0, len(rows))
	for _, row := range rows {
		dev, err := row.toModel()
		if err != nil {
			if row.ID == "" || row.UserID == "" {
				return nil, &DirectoryError{Status: 200, Message: err.Error()}
			}
			dev = &models.DirectoryDevice{ID: row.ID, UserID: row.UserID, Name: row.Name}
		}
		devices = append(devices, dev)
	}
	return devices, nil
}
