package store

import (
	"context"
	"fmt"

	"github.com/helmcode/inr-assistant/pkg/model"
)

// Store persists user records and INR data. Implementations are safe for
// concurrent use; concurrent saves of the same document are last-write-wins.
type Store interface {
	// ListUsers returns all users, newest first.
	ListUsers(ctx context.Context) ([]model.UserRecord, error)
	// EnsureUser creates the user record unless one already exists.
	EnsureUser(ctx context.Context, u model.UserRecord) error
	// DeleteUser atomically removes the users and inrData records of id.
	// Deleting a missing user is not an error.
	DeleteUser(ctx context.Context, id string) error
	// LoadINRData returns the user's data, or empty data when none is stored.
	LoadINRData(ctx context.Context, id string) (*model.INRData, error)
	SaveINRData(ctx context.Context, id string, d *model.INRData) error
	Close() error
}

// Operations named in StorageError.
const (
	OpList   = "list"
	OpCreate = "create"
	OpDelete = "delete"
	OpLoad   = "load"
	OpSave   = "save"
	OpOpen   = "open"
)

// StorageError wraps a failed data store operation. Operations are not retried.
type StorageError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("storage %s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op, collection, id string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Collection: collection, ID: id, Err: err}
}

func emptyINRData() *model.INRData {
	return &model.INRData{Measurements: []model.Measurement{}}
}
