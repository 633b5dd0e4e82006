// Package styles provides a centralized theme and style system for the
// agentchat UI. This enables consistent styling across all UI components
// and easy theming.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette - ANSI 256 colors used throughout the application
var (
	// Primary accent color (purple)
	ColorAccent = lipgloss.Color("141")

	// Text colors
	ColorText       = lipgloss.Color("252") // Primary text
	ColorTextMuted  = lipgloss.Color("245") // Secondary/muted text
	ColorTextBright = lipgloss.Color("15")  // Bright/highlighted text

	// Semantic colors
	ColorError   = lipgloss.Color("196") // Error messages
	ColorWarning = lipgloss.Color("214") // Warnings, reconnecting state
	ColorSuccess = lipgloss.Color("42")  // Connected state

	// Sender colors
	ColorUser  = lipgloss.Color("75")  // "You:" label
	ColorAgent = lipgloss.Color("213") // Agent label

	// Markup colors
	ColorMarkup      = lipgloss.Color("111") // Image links and other markup lines
	ColorCommand     = lipgloss.Color("222") // Streaming command progress
	ColorPlaceholder = lipgloss.Color("240") // Placeholder text

	// Border colors
	ColorBorder      = lipgloss.Color("141") // Default border (matches accent)
	ColorBorderMuted = lipgloss.Color("62")  // Muted border
)

// Panel/Box styles
var (
	// BoxStyle is the default rounded box for overlays and panels
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	// BoxStyleCompact has less padding
	BoxStyleCompact = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 2)
)

// Text styles
var (
	// TitleStyle for panel/section titles
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// TextStyle for normal text
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// TextMutedStyle for secondary/helper text
	TextMutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	// TextBoldStyle for emphasized text
	TextBoldStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)
)

// Chat transcript styles
var (
	// UserLabelStyle for the "You:" prefix on user messages
	UserLabelStyle = lipgloss.NewStyle().
			Foreground(ColorUser).
			Bold(true)

	// AgentLabelStyle for the agent prefix on ai messages
	AgentLabelStyle = lipgloss.NewStyle().
			Foreground(ColorAgent).
			Bold(true)

	// MarkupStyle for transcript lines that carry markup, like image links
	MarkupStyle = lipgloss.NewStyle().
			Foreground(ColorMarkup).
			Underline(true)

	// CommandStyle for in-flight command progress lines
	CommandStyle = lipgloss.NewStyle().
			Foreground(ColorCommand).
			Italic(true)
)

// Selection and highlighting
var (
	// SelectedStyle for highlighted/selected items
	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorTextBright).
			Background(ColorAccent).
			Bold(true)
)

// Input and form styles
var (
	// PlaceholderStyle for placeholder text
	PlaceholderStyle = lipgloss.NewStyle().
			Foreground(ColorPlaceholder).
			Italic(true)

	// ToggleOnStyle for enabled plugin markers
	ToggleOnStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	// ToggleOffStyle for disabled plugin markers
	ToggleOffStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Feedback styles
var (
	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	// FooterStyle for footer/help text
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Status bar styles
var (
	// StatusBarStyle is the default status bar style (purple theme)
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	// StatusBarStyleDark is the dark theme variant
	StatusBarStyleDark = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#D0D0D0")).
				Background(lipgloss.Color("#3C3C3C")).
				Padding(0, 1)
)
