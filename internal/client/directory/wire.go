package directory

import (
	"fmt"

	"relay/internal/client/models"
	"relay/internal/common"
)

// Wire rows carry binary columns bytea-hex encoded (`\x…`). Conversions
// validate at the boundary so the rest of the client only ever sees typed
// models with raw bytes.

type deviceRow struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	PublicKey string `json:"public_key"`
	Name      string `json:"name"`
}

func (r *deviceRow) toModel() (*models.DirectoryDevice, error) {
	if r.ID == "" || r.UserID == "" {
		return nil, fmt.Errorf("device row missing id fields")
	}
	pub, err := common.DecodeBytea(r.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("device %s public key: %w", r.ID, err)
	}
	return &models.DirectoryDevice{ID: r.ID, UserID: r.UserID, PublicKey: pub, Name: r.Name}, nil
}

type documentRow struct {
	ID            string `json:"id"`
	GroupID       string `json:"group_id"`
	StorageBucket string `json:"storage_bucket"`
	StoragePath   string `json:"storage_path"`
	ContentNonce  string `json:"content_nonce"`
	ContentAAD    string `json:"content_aad"`
	ContentAlg    string `json:"content_alg"`
	CreatedBy     string `json:"created_by"`
	Name          string `json:"name"`
}

func documentToRow(d *models.Document) documentRow {
	return documentRow{
		ID:            d.ID,
		GroupID:       d.GroupID,
		StorageBucket: d.StorageBucket,
		StoragePath:   d.StoragePath,
		ContentNonce:  common.EncodeBytea(d.ContentNonce),
		ContentAAD:    common.EncodeBytea(d.ContentAAD),
		ContentAlg:    d.ContentAlg,
		CreatedBy:     d.CreatedBy,
		Name:          d.Name,
	}
}

func (r *documentRow) toModel() (*models.Document, error) {
	if r.ID == "" || r.GroupID == "" {
		return nil, fmt.Errorf("document row missing id fields")
	}
	nonce, err := common.DecodeBytea(r.ContentNonce)
	if err != nil {
		return nil, fmt.Errorf("document %s nonce: %w", r.ID, err)
	}
	aad, err := common.DecodeBytea(r.ContentAAD)
	if err != nil {
		return nil, fmt.Errorf("document %s aad: %w", r.ID, err)
	}
	return &models.Document{
		ID:            r.ID,
		GroupID:       r.GroupID,
		StorageBucket: r.StorageBucket,
		StoragePath:   r.StoragePath,
		ContentNonce:  nonce,
		ContentAAD:    aad,
		ContentAlg:    r.ContentAlg,
		CreatedBy:     r.CreatedBy,
		Name:          r.Name,
	}, nil
}

type wrappedKeyRow struct {
	DocumentID   string `json:"document_id"`
	DeviceID     string `json:"device_id"`
	WrappedDEK   string `json:"wrapped_dek"`
	WrappedNonce string `json:"wrapped_nonce"`
	WrapAlg      string `json:"wrap_alg"`
}

func wrappedKeyToRow(e *models.WrappedKeyEntry) wrappedKeyRow {
	return wrappedKeyRow{
		DocumentID:   e.DocumentID,
		DeviceID:     e.DeviceID,
		WrappedDEK:   common.EncodeBytea(e.WrappedDEK),
		WrappedNonce: common.EncodeBytea(e.WrappedNonce),
		WrapAlg:      e.WrapAlg,
	}
}

func (r *wrappedKeyRow) toModel() (*models.WrappedKeyEntry, error) {
	if r.DocumentID == "" || r.DeviceID == "" {
		return nil, fmt.Errorf("wrapped key row missing id fields")
	}
	dek, err := common.DecodeBytea(r.WrappedDEK)
	if err != nil {
		return nil, fmt.Errorf("wrapped key %s/%s payload: %w", r.DocumentID, r.DeviceID, err)
	}
	nonce, err := common.DecodeBytea(r.WrappedNonce)
	if err != nil {
		return nil, fmt.Errorf("wrapped key %s/%s nonce: %w", r.DocumentID, r.DeviceID, err)
	}
	return &models.WrappedKeyEntry{
		DocumentID:   r.DocumentID,
		DeviceID:     r.DeviceID,
		WrappedDEK:   dek,
		WrappedNonce: nonce,
		WrapAlg:      r.WrapAlg,
	}, nil
}
