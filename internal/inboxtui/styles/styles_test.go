package styles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAvatarColorMapperIsStable(t *testing.T) {
	m := NewAvatarColorMapper()
	first := m.ColorCode("User-42")
	require.Equal(t, first, m.ColorCode("  user-42 "))
	require.Contains(t, AvatarColorPalette, first)
	require.Equal(t, m.ColorCode(""), m.ColorCode("unknown"))

	custom := NewAvatarColorMapperWithPalette([]string{"99"})
	require.Equal(t, "99", custom.ColorCode("anyone"))
}

func TestThemeByName(t *testing.T) {
	theme, err := ThemeByName("")
	require.NoError(t, err)
	require.Equal(t, "default", theme.Name)

	theme, err = ThemeByName("High-Contrast")
	require.NoError(t, err)
	require.Equal(t, "high-contrast", theme.Name)

	_, err = ThemeByName("neon")
	require.Error(t, err)
	require.Equal(t, []string{"default", "high-contrast"}, ThemeNames())
}

func TestComputeRowWidths(t *testing.T) {
	require.Equal(t, RowWidths{}, ComputeRowWidths(0))

	wide := ComputeRowWidths(100)
	require.Equal(t, 24, wide.Name)
	require.Equal(t, 100, wide.Glyph+wide.Name+wide.Preview+wide.Time+wide.Badge+LayoutGap*4)

	narrow := ComputeRowWidths(30)
	require.Zero(t, narrow.Preview)
	require.Positive(t, narrow.Name)
}
