package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetActive(t *testing.T) {
	t.Cleanup(func() { Active = FlexokiDark })

	assert.True(t, SetActive("gruvbox-dark"))
	assert.Equal(t, "gruvbox-dark", Active.Name)

	assert.False(t, SetActive("solarized"))
	assert.Equal(t, "gruvbox-dark", Active.Name, "unknown name keeps the active theme")
}

func TestByNameFallback(t *testing.T) {
	assert.Equal(t, FlexokiDark.Name, ByName("nope").Name)
	assert.Equal(t, Terminal.Name, ByName("terminal").Name)
	assert.Contains(t, Names(), Default)
}
