package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width for side-by-side panes.
	LayoutWideWidth = 140
)

// Chrome sizes.
const (
	// chromeHeight is the number of rows used by the header, command bar
	// and status line.
	chromeHeight = 4

	helpWidth    = 56
	helpKeyWidth = 14
	modalWidth   = 52

	// formWidth caps form inputs on wide terminals.
	formWidth = 72

	// textareaHeight is the height of multi-line form fields.
	textareaHeight = 10
)

// Timing constants.
const (
	// expiryRefresh redraws the header's session countdown.
	expiryRefresh = 30 * time.Second
)
