// Package ids generates record identifiers.
package ids

import (
	"strings"

	"github.com/google/uuid"
)

// Generator produces 32 character hex ids.
type Generator struct {
	newID func() string
}

// NewGenerator returns a Generator backed by random (v4) UUIDs.
func NewGenerator() *Generator {
	return &Generator{newID: func() string {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}}
}

// Next returns a fresh id for which taken reports false. Seeded records use
// ids from the same space, so every candidate is checked.
func (g *Generator) Next(taken func(id string) bool) string {
	for {
		id := g.newID()
		if taken == nil || !taken(id) {
			return id
		}
	}
}
