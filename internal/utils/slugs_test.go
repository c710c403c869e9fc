package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugifyTitle(t *testing.T) {
	require.Equal(t, "morning-harbor", SlugifyTitle("Morning Harbor"))
	require.Equal(t, "sunset", SlugifyTitle("  Sunset  "))

	// Non-latin titles transliterate rather than falling back.
	require.Equal(t, "zakat", SlugifyTitle("Закат"))
}

func TestSlugifyTitle_Fallback(t *testing.T) {
	// Titles that normalize to nothing get a generated stub.
	for _, title := range []string{"", "???", "!!!"} {
		slug := SlugifyTitle(title)
		require.True(t, strings.HasPrefix(slug, "photo-"), "got %q for %q", slug, title)
		require.Len(t, slug, len("photo-")+8)
	}
}

func TestSlugifyTitle_Unique(t *testing.T) {
	// Fallback stubs should not collide with each other.
	a := SlugifyTitle("!!!")
	b := SlugifyTitle("!!!")
	require.NotEqual(t, a, b)
}
