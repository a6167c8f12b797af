// internal/pkg/slug/slug.go
package slug

import (
	"strings"

	"github.com/google/uuid"
)

// New returns an opaque URL-safe identifier for external exposure.
// Internal sequential IDs never leave the database.
func New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
