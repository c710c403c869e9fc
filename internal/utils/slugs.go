package utils

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// SlugifyTitle normalizes a title into a URL slug. Titles that normalize to
// nothing (for example, titles written entirely in an alphabet the
// transliterator cannot map) get a random photo-<id> stub instead.
func SlugifyTitle(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = fmt.Sprintf("photo-%s", uuid.NewString()[:8])
	}
	return base
}
