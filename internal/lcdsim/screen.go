package lcdsim

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harveysanders/lcdfeed/lcdfeed/display"
)

var (
	bezelStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// Hex formats a backlight colour for lipgloss.
func Hex(c display.RGB) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// textColor picks black or white text, whichever reads better on bg.
func textColor(bg display.RGB) lipgloss.Color {
	// ITU-R BT.601 luma
	luma := 299*int(bg.R) + 587*int(bg.G) + 114*int(bg.B)
	if luma > 128*1000 {
		return lipgloss.Color("#000000")
	}
	return lipgloss.Color("#FFFFFF")
}

// RenderScreen draws the two LCD rows on the backlight colour. Rows are
// padded or cut to display.Columns.
func RenderScreen(lines [2]string, backlight display.RGB) string {
	glass := lipgloss.NewStyle().
		Background(lipgloss.Color(Hex(backlight))).
		Foreground(textColor(backlight))

	rows := make([]string, len(lines))
	for i, l := range lines {
		rows[i] = glass.Render(fit(l))
	}
	return bezelStyle.Render(strings.Join(rows, "\n"))
}

func fit(s string) string {
	if len(s) >= display.Columns {
		return s[:display.Columns]
	}
	return s + strings.Repeat(" ", display.Columns-len(s))
}
