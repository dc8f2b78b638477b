package handler

import (
	"github.com/leca/dt-user-images/internal/config"
	"github.com/leca/dt-user-images/internal/database"
	"github.com/leca/dt-user-images/internal/storage"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	DB     database.Database
	Store  storage.Storage
	Config *config.Config
}
