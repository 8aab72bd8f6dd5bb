package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	slug := GenerateSlug("In Loving Memory of Asha Verma")
	assert.True(t, strings.HasPrefix(slug, "in-loving-memory-of-asha-verma-"))
	assert.NotContains(t, slug, " ")

	// suffix keeps equal titles distinct
	assert.NotEqual(t, GenerateSlug("Asha"), GenerateSlug("Asha"))
}

func TestGenerateSlugEdgeCases(t *testing.T) {
	// only the random suffix remains for unusable titles
	slug := GenerateSlug("!!! ???")
	assert.Len(t, slug, 8)

	long := GenerateSlug(strings.Repeat("a", 200))
	assert.LessOrEqual(t, len(long), 60+1+8)
}
