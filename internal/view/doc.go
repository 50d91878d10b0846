// Package view holds the controllers behind each coursedeck screen.
//
// A controller owns the state a screen renders (loaded entities, loading
// and submitting flags, the last error, a transient notice) and exposes the
// actions a user can take. Actions never block. They return an Effect that
// lists Commands for the UI to run off the event loop, a route to navigate
// to, or a notice to expire after NoticeTTL. When a Command finishes, its
// Result goes back through the controller's Apply method, which is the only
// place fetched data lands.
//
// Every controller has a generation number. Close retires it, and Apply
// ignores any Result issued under another generation, so a response that
// arrives after the user left a screen cannot touch it.
//
// Lists are only changed after the server confirms: an enroll, delete or
// create updates local state inside Apply, never when the action starts.
//
// Editor implements the course and lesson management screen. Its position
// is a State of three enums (Mode, SubMode, Tab) and Transition is the one
// function allowed to move it; combinations such as a lesson pane on a
// course that does not exist yet are rejected with ErrIllegalTransition.
package view
