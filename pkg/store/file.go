package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrymomot/dataguard/pkg/entity"
)

// SnapshotDocument is the on-disk form of a snapshot.
type SnapshotDocument struct {
	CapturedAt time.Time          `json:"captured_at,omitzero"`
	Users      []entity.User      `json:"users"`
	Products   []entity.Product   `json:"products"`
	Orders     []entity.Order     `json:"orders"`
	OrderItems []entity.OrderItem `json:"order_items"`
}

// ReadSnapshot decodes a JSON snapshot document. Unknown fields are rejected.
func ReadSnapshot(r io.Reader) (*entity.Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc SnapshotDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Join(ErrLoadSnapshot, ErrMalformedSnapshot, err)
	}

	var opts []entity.SnapshotOption
	if !doc.CapturedAt.IsZero() {
		opts = append(opts, entity.WithCapturedAt(doc.CapturedAt))
	}
	snap, err := entity.NewSnapshot(doc.Users, doc.Products, doc.Orders, doc.OrderItems, opts...)
	if err != nil {
		return nil, errors.Join(ErrLoadSnapshot, err)
	}
	return snap, nil
}

// LoadFile reads a snapshot document from path.
func LoadFile(path string) (*entity.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrLoadSnapshot, fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()
	return ReadSnapshot(f)
}
