package cmd

import (
	"strings"

	"github.com/pipestudio/pipestudio/pkg/persistence"
	"github.com/pipestudio/pipestudio/pkg/persistence/file"
)

// NewPersistence creates a persistence provider from a data URL. Only the
// file provider is implemented; a bare path is treated as file storage.
func NewPersistence(dataURL string) persistence.Persistence {
	root := strings.TrimPrefix(dataURL, "file://")

	return file.NewPersistence(root)
}
