package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorHeader    = lipgloss.Color("86")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("252")
	ColorMuted     = lipgloss.Color("240")
	ColorBrand     = lipgloss.Color("39")
	ColorCritical  = lipgloss.Color("196")
	ColorWarning   = lipgloss.Color("214")
	ColorOK        = lipgloss.Color("82")
	ColorSpinner   = lipgloss.Color("205")
	ColorBorder    = lipgloss.Color("238")
	ColorHighlight = lipgloss.Color("57")
)

// Text styles.
var (
	BrandStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorBrand)
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorValue)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue)
	SubtleStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCritical)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	InfoStyle     = lipgloss.NewStyle().Foreground(ColorOK)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(ColorHighlight)
	ChipStyle     = lipgloss.NewStyle().Foreground(ColorValue).Background(ColorBorder).Padding(0, 1)
)

// Layout styles.
var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
	BannerStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)
	ErrorBannerStyle = BannerStyle.BorderForeground(ColorCritical)
	HeaderBarStyle   = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(ColorBorder).
				MarginBottom(1)
)

// borderPadding is the horizontal space taken by a bordered, padded box.
const borderPadding = 4
