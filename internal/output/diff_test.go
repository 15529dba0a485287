package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffYAML_NoChanges(t *testing.T) {
	doc := []byte("externalDependencies:\n  AlphaCore: []\n")
	out, err := DiffYAML("old", doc, "new", doc, false)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDiffYAML_Changes(t *testing.T) {
	from := []byte("externalDependencies:\n  AlphaCore: []\n")
	to := []byte("externalDependencies:\n  AlphaCore: []\n  BetaKit: []\n")

	out, err := DiffYAML("old", from, "new", to, false)
	require.NoError(t, err)
	assert.Contains(t, out, "BetaKit")
}
