// Package clipboard copies the exported artifact to the system clipboard.
package clipboard

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

const errorReadArtifactFormat = "read artifact %s: %w"

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct {
	writeAll func(text string) error
}

// NewService constructs a clipboard Service backed by the system clipboard.
func NewService() *Service {
	return &Service{writeAll: clipboard.WriteAll}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	return service.writeAll(text)
}

// CopyFile reads the file at path and places its content on the clipboard.
//
// #nosec G304
func (service *Service) CopyFile(path string) error {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return fmt.Errorf(errorReadArtifactFormat, path, readError)
	}
	return service.Copy(string(content))
}

var _ Copier = (*Service)(nil)
