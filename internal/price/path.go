package price

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mtlprog/algofolio/internal/domain"
)

// Path is the stack of assets whose prices are currently being resolved.
type Path []domain.AssetID

// Contains reports whether id is already being resolved.
func (p Path) Contains(id domain.AssetID) bool {
	return slices.Contains(p, id)
}

// Enter returns p extended with id, or ErrCycle if id is already on it.
// The receiver is never modified.
func (p Path) Enter(id domain.AssetID) (Path, error) {
	if p.Contains(id) {
		return p, fmt.Errorf("%w: %s -> %d", ErrCycle, p, id)
	}
	return append(slices.Clip(p), id), nil
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, id := range p {
		parts[i] = id.String()
	}
	return strings.Join(parts, " -> ")
}
