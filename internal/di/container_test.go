package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct{ name string }

func TestContainerResolve(t *testing.T) {
	c := NewContainer()
	c.Register("w", &widget{name: "a"})
	c.Register("n", 42)

	w, err := Resolve[*widget](c, "w")
	require.NoError(t, err)
	assert.Equal(t, "a", w.name)

	_, err = Resolve[*widget](c, "n")
	assert.Error(t, err)

	_, err = Resolve[*widget](c, "missing")
	assert.Error(t, err)

	assert.Equal(t, []string{"n", "w"}, c.GetNames())
	assert.Panics(t, func() { MustResolve[string](c, "w") })

	c.Remove("n")
	assert.False(t, c.Has("n"))
	c.Clear()
	assert.Empty(t, c.GetNames())
}
