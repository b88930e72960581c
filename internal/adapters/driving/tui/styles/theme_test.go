package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, DefaultPalette, s.Palette)
	assert.Equal(t, DefaultPalette.Accent, s.Title.GetForeground())
	assert.True(t, s.Title.GetBold())
	assert.Equal(t, DefaultPalette.Accent, s.Selected.GetBackground())
}

func TestNew_CustomPalette(t *testing.T) {
	p := DefaultPalette
	p.Bad = lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF0000"}

	s := New(p)

	assert.Equal(t, p.Bad, s.Error.GetForeground())
	assert.NotEqual(t, DefaultPalette.Bad, s.Error.GetForeground())
}
