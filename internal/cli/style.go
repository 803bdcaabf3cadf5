package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/emilianobruni/erflow/internal/model"
)

// Palette entries pair a dark-terminal shade with a light-terminal shade.
var (
	colorGood   = lipgloss.AdaptiveColor{Dark: "#22c55e", Light: "#16a34a"}
	colorBad    = lipgloss.AdaptiveColor{Dark: "#ef4444", Light: "#dc2626"}
	colorAmber  = lipgloss.AdaptiveColor{Dark: "#f59e0b", Light: "#d97706"}
	colorWard   = lipgloss.AdaptiveColor{Dark: "#3b82f6", Light: "#2563eb"}
	colorMuted  = lipgloss.AdaptiveColor{Dark: "#6b7280", Light: "#9ca3af"}
	colorAccent = lipgloss.AdaptiveColor{Dark: "#a78bfa", Light: "#7c3aed"}
	colorLink   = lipgloss.AdaptiveColor{Dark: "#38bdf8", Light: "#0284c7"}
)

var (
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGood)
	StyleError   = lipgloss.NewStyle().Foreground(colorBad)
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)
	StyleInfo    = lipgloss.NewStyle().Foreground(colorWard)

	styleMuted = lipgloss.NewStyle().Foreground(colorMuted)
	styleID    = lipgloss.NewStyle().Foreground(colorAccent)
	styleLink  = lipgloss.NewStyle().Foreground(colorLink)
	styleBold  = lipgloss.NewStyle().Bold(true)
)

const swatch = "██"

func printStatus(w io.Writer, icon string, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", icon, fmt.Sprintf(format, args...))
}

// PrintSuccess prints a line prefixed with a green check.
func PrintSuccess(format string, args ...any) {
	printStatus(os.Stdout, StyleSuccess.Render("✓"), format, args...)
}

// PrintWarning prints a line prefixed with an amber mark to stderr.
func PrintWarning(format string, args ...any) {
	printStatus(os.Stderr, StyleWarning.Render("!"), format, args...)
}

// PrintInfo prints a line prefixed with a muted arrow.
func PrintInfo(format string, args ...any) {
	printStatus(os.Stdout, styleMuted.Render("→"), format, args...)
}

func RenderID(id string) string      { return styleID.Render(id) }
func RenderURL(url string) string    { return styleLink.Render(url) }
func RenderMuted(text string) string { return styleMuted.Render(text) }
func RenderBold(text string) string  { return styleBold.Render(text) }

// hexStyle returns a foreground style for hex, or the muted style when the
// colour is unknown. White triage is muted too so it shows on light terminals.
func hexStyle(c model.Color) lipgloss.Style {
	hex := model.TriageHex[c]
	if hex == "" || c == model.ColorWhite {
		return styleMuted
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// RenderTriage renders a triage colour name in its own colour.
func RenderTriage(c model.Color) string {
	return hexStyle(c).Render(string(c))
}

// TriageSwatch renders a small block in the triage colour.
func TriageSwatch(c model.Color) string {
	if c == model.ColorWhite {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(model.TriageHex[c])).Render(swatch)
	}
	return hexStyle(c).Render(swatch)
}

// RenderBlank shows a blank enum value as a muted dash.
func RenderBlank(value string) string {
	if strings.TrimSpace(value) == "" {
		return styleMuted.Render("-")
	}
	return value
}

func bordered(border lipgloss.TerminalColor, hpad int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, hpad)
}

// Box renders content in a muted rounded border.
func Box(content string) string {
	return bordered(colorMuted, 1).Render(content)
}

// TitleBox renders a bold title in an accent border.
func TitleBox(title string) string {
	return bordered(colorAccent, 2).Bold(true).Render(title)
}

// LabelValue right-aligns label in a column of labelWidth.
func LabelValue(label, value string, labelWidth int) string {
	label = lipgloss.NewStyle().
		Width(labelWidth).
		Align(lipgloss.Right).
		Foreground(colorMuted).
		Render(label + ":")
	return label + " " + value
}
