// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// MODE
// =============================================================================

// Mode selects the background the theme is built for.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// ParseMode maps a config value to a Mode. Unknown values mean auto.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDark:
		return ModeDark
	case ModeLight:
		return ModeLight
	default:
		return ModeAuto
	}
}

// =============================================================================
// THEME
// =============================================================================

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderMeta     lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SystemBubble    lipgloss.Style
	ErrorBubble     lipgloss.Style
	MessageSender   lipgloss.Style
	MessageTime     lipgloss.Style
	MessageFooter   lipgloss.Style

	PlaceholderTitle lipgloss.Style
	PlaceholderBody  lipgloss.Style

	// ==========================================================================
	// RICH TEXT STYLES
	// ==========================================================================

	Bold          lipgloss.Style
	InlineCode    lipgloss.Style
	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style
	Bullet        lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar         lipgloss.Style
	SidebarFocused  lipgloss.Style
	PanelTitle      lipgloss.Style
	PanelLabel      lipgloss.Style
	PanelValue      lipgloss.Style
	CatalogItem     lipgloss.Style
	CatalogActive   lipgloss.Style
	CatalogSelected lipgloss.Style
	CatalogMeta     lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputFocused   lipgloss.Style
	InputDisabled  lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar          lipgloss.Style
	StatusConnected    lipgloss.Style
	StatusDisconnected lipgloss.Style
	StatusChecked      lipgloss.Style
	ShortcutKey        lipgloss.Style
	ShortcutDesc       lipgloss.Style

	// ==========================================================================
	// SPINNER AND DIALOG STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	ConfirmBox   lipgloss.Style
}

// NewTheme creates a theme for mode. ModeAuto asks the terminal for its
// background; an explicit mode also pins lipgloss's adaptive colors.
func NewTheme(mode Mode) *Theme {
	colorProfile := termenv.ColorProfile()

	isDark := true
	switch mode {
	case ModeDark:
		lipgloss.SetHasDarkBackground(true)
	case ModeLight:
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1).
		MarginRight(4)

	t.SystemBubble = lipgloss.NewStyle().
		Foreground(SystemBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(SystemBubbleBorder).
		Padding(0, 1)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.MessageSender = lipgloss.NewStyle().Bold(true)
	t.MessageTime = lipgloss.NewStyle().Foreground(TextMuted)
	t.MessageFooter = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.PlaceholderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		MarginTop(1)
	t.PlaceholderBody = lipgloss.NewStyle().Foreground(TextSecondary)

	// Rich text
	t.Bold = lipgloss.NewStyle().Bold(true)
	t.InlineCode = lipgloss.NewStyle().
		Foreground(CodeFg).
		Background(CodeBg)
	t.CodeBlock = lipgloss.NewStyle().
		Background(CodeBg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderTop(false).
		BorderRight(false).
		BorderBottom(false).
		BorderForeground(OverlayDim).
		PaddingLeft(1)
	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)
	t.Bullet = lipgloss.NewStyle().Foreground(Purple)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.SidebarFocused = t.Sidebar.BorderForeground(FocusRing)
	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		MarginTop(1)
	t.PanelLabel = lipgloss.NewStyle().Foreground(TextSecondary)
	t.PanelValue = lipgloss.NewStyle().Foreground(TextPrimary)
	t.CatalogItem = lipgloss.NewStyle().Foreground(TextPrimary)
	t.CatalogActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)
	t.CatalogSelected = lipgloss.NewStyle().
		Background(SelectionBg)
	t.CatalogMeta = lipgloss.NewStyle().Foreground(TextMuted)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)
	t.InputFocused = t.InputContainer.BorderForeground(FocusRing)
	t.InputDisabled = t.InputContainer.BorderForeground(Amber)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.StatusConnected = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.StatusDisconnected = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.StatusChecked = lipgloss.NewStyle().Foreground(TextMuted)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)

	// Spinner and dialogs
	t.Spinner = lipgloss.NewStyle().Foreground(Purple)
	t.ThinkingText = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)
	t.ConfirmBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Amber).
		Foreground(TextPrimary).
		Padding(0, 2)
}

// GlamourStyle is the glamour standard style matching the background.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// ChromaStyle is the chroma style used for code blocks.
func (t *Theme) ChromaStyle() string {
	if t.IsDark {
		return "monokai"
	}
	return "github"
}

// =============================================================================
// LAYOUT
// =============================================================================

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// SidebarWidth is the sidebar's outer width for the layout mode; zero means
// the sidebar is hidden.
func (t *Theme) SidebarWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return 0
	case LayoutMedium:
		return 28
	default:
		return 36
	}
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
