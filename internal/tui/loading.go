package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LoadingState holds the spinner shown while a page loads.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState returns a spinner with the default message.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSpinner)
	return &LoadingState{spinner: s, message: "Loading…"}
}

// Init starts the spinner.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on its tick messages.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// RenderLoading returns the spinner line for message.
// A nil state renders the message alone.
func RenderLoading(loading *LoadingState, message string) string {
	if loading == nil {
		return message
	}
	return fmt.Sprintf("%s %s", loading.spinner.View(), message)
}
