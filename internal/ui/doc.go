// Package ui provides the terminal user interface for coursedeck.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns navigation: a nav.History back
// stack, the nav.Guard every navigation passes through, and the current
// screen. Each screen wraps one view controller and the bubbles widgets
// that render it.
//
// Controllers never block. They return a view.Effect whose commands the
// model runs off the event loop; results come back as messages and are
// applied only if the controller that issued them is still on screen.
//
// # Event Flow
//
//  1. Run builds the model, which opens the start route through the guard
//  2. Key presses go to an open modal, then to the screen, then to the
//     global bindings
//  3. Effects push routes, run commands and schedule notice expiry
//  4. Session changes arrive through a Notifier and re-check the guard
//  5. An expired session returns the user to the login page, remembering
//     the page to come back to
//
// # Key Bindings
//
//   - c: Course catalogue
//   - m: My courses
//   - M: New course (teachers)
//   - p: Profile
//   - o: Sign out
//   - T: Cycle theme
//   - ?: Help
//   - esc: Back
//   - q or Ctrl+C: Quit
package ui
