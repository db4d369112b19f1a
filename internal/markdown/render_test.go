package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer(40)
	require.NoError(t, err)

	rendered := r.Render("**X** is Y.")
	require.Contains(t, rendered, "X")
	require.Contains(t, rendered, "is Y.")
	require.Equal(t, rendered, r.Render("**X** is Y."))
}

func TestRenderer_SetWidth(t *testing.T) {
	r, err := NewRenderer(40)
	require.NoError(t, err)
	r.Render("hello")

	require.NoError(t, r.SetWidth(80))
	require.Equal(t, 80, r.Width())
	require.Empty(t, r.cache)

	require.NoError(t, r.SetWidth(0))
	require.Equal(t, 80, r.Width())
}
