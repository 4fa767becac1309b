package models

// AppState holds the layout state of the terminal UI
type AppState struct {
	Width          int
	Height         int
	LeftPanelWidth int
	FocusedPanel   PanelType
	ViewMode       ViewMode

	// Resource is the page on screen
	Resource Resource
}

// PanelType identifies which panel is focused
type PanelType int

const (
	LeftPanel PanelType = iota
	RightPanel
)

// ViewMode identifies the current view
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
	SearchMode
	FilterMode
	DetailMode
	FavoritesMode
)

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:          80,
		Height:         24,
		LeftPanelWidth: 22,
		FocusedPanel:   RightPanel,
		ViewMode:       NormalMode,
		Resource:       ResourceCreatures,
	}
}
