// Package imagestore keeps uploaded car images and hands back the reference
// string stored on the user profile. Image bytes are never inspected.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// Store saves and removes uploaded images.
type Store interface {
	// Save stores the image read from r and returns its reference.
	Save(ctx context.Context, r io.Reader, contentType string) (string, error)

	// Delete removes the image with the given reference.
	Delete(ctx context.Context, ref string) error
}

// NewName returns a fresh object name of the form <unix-millis>-<random>.jpg.
func NewName() string {
	return fmt.Sprintf("%d-%d.jpg", time.Now().UnixMilli(), rand.Intn(1_000_000_000))
}
