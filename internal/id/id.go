// Package id generates the opaque identifiers handed out by the server.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SnapshotPrefix marks identifiers of a loaded catalog snapshot.
const SnapshotPrefix = "snap"

// Generate returns prefix-<nanoid>, for example "snap-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// Snapshot returns a new catalog snapshot id.
// It panics when the system has no entropy; that only happens at startup.
func Snapshot() string {
	sid, err := Generate(SnapshotPrefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate snapshot id: %v", err))
	}
	return sid
}
