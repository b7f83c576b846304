package httpapi

import (
	"relay/internal/common"
	"relay/internal/server/models"
)

type deviceRow struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	PublicKey string `json:"public_key"`
	Name      string `json:"name"`
}

func deviceToRow(d *models.Device) deviceRow {
	return deviceRow{
		ID:        d.ID,
		UserID:    d.UserID,
		PublicKey: common.EncodeBytea(d.PublicKey),
		Name:      d.Name,
	}
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
	nonce, err := common.DecodeBytea(r.ContentNonce)
	if err != nil {
		return nil, err
	}
	aad, err := common.DecodeBytea(r.ContentAAD)
	if err != nil {
		return nil, err
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

func documentKeyToRow(k *models.DocumentKey) wrappedKeyRow {
	return wrappedKeyRow{
		DocumentID:   k.DocumentID,
		DeviceID:     k.DeviceID,
		WrappedDEK:   common.EncodeBytea(k.WrappedDEK),
		WrappedNonce: common.EncodeBytea(k.WrappedNonce),
		WrapAlg:      k.WrapAlg,
	}
}

func (r *wrappedKeyRow) toModel() (*models.DocumentKey, error) {
	dek, err := common.DecodeBytea(r.WrappedDEK)
	if err != nil {
		return nil, err
	}
	nonce, err := common.DecodeBytea(r.WrappedNonce)
	if err != nil {
		return nil, err
	}
	return &models.DocumentKey{
		DocumentID:   r.DocumentID,
		DeviceID:     r.DeviceID,
		WrappedDEK:   dek,
		WrappedNonce: nonce,
		WrapAlg:      r.WrapAlg,
	}, nil
}

type groupRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type memberRow struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
