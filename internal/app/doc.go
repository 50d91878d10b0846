// Package app is the composition root for coursedeck.
//
// # Overview
//
// Run wires configuration, logging, session storage, the API client and
// the UI together and blocks until the user quits or the context is
// cancelled.
//
// # Architecture
//
//  1. Load settings from ~/.config/coursedeck/config.toml and COURSEDECK_* variables
//  2. Open the log file and the session storage backend
//  3. Build the API client and the session store on top of it
//  4. Attach the auth transport, which adds the bearer token and reacts to 401s
//  5. Forward session changes and expiry to the UI through a notifier
//  6. Start the expiry watcher
//  7. Start the TUI on the requested or remembered page
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()            Read settings
//	       ├─────> storage.Open()           Session persistence
//	       ├─────> api.NewClient()          HTTP client
//	       ├─────> session.New()            Session store
//	       ├─────> api.NewAuthTransport()   Token + 401 handling
//	       ├─────> StartExpiryWatcher()     Local token expiry
//	       └─────> ui.Run()                 Start TUI (blocks)
//
// # Error Handling
//
// Configuration, logging, storage and client setup failures are returned
// from Run. Once the UI is up, request failures are shown on the page that
// made them and logged; an expired or rejected session sends the user back
// to the login page.
package app
