package model

// Page is a complete standalone "screen" that occupies everything except the footer.
type Page int

const (
	PageLogin Page = iota
	PageRoster
	PageHelp
)

// KeyZone defines the distinct areas of the ui in which the keyboard can be interacted with.
// Only one zone, with the addition of the default global zone, will be active at any one time.
type KeyZone int

const (
	KZplayerTable KeyZone = iota
	KZsearchInput
	KZloginInput
)

// Typing reports whether the zone is a text input that consumes printable keys.
func (z KeyZone) Typing() bool {
	return z == KZsearchInput || z == KZloginInput
}

// ViewState tracks the common ui states that are shared between many models.
type ViewState struct {
	// Page is the active highest level page model.
	Page Page
	// PreviousPage is returned to when closing the help page.
	PreviousPage Page
	// KeyZone defines which area is active and accepting user keyboard inputs.
	KeyZone KeyZone

	// --------- h
	// | Upper | e
	// |-------- i
	// | Lower | g
	// --------- h
	// W i d t h t
	Upper  int
	Lower  int
	Height int
	Width  int
}

// Focus requests a page and keyboard zone change. The root model merges it into the current ViewState.
type Focus struct {
	Page    Page
	KeyZone KeyZone
}
