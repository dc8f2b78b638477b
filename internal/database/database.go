package database

import "github.com/leca/dt-user-images/internal/model"

// Database defines the persistence interface for the upload ledger.
type Database interface {
	// PutUpload inserts the record, replacing any existing one for the same user and filename.
	PutUpload(u *model.Upload) error
	GetUpload(userID, filename string) (*model.Upload, error)
	DeleteUpload(userID, filename string) error
	Stats(userID string) (*model.Stats, error)

	Close() error
}
