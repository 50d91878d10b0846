// Package config loads coursedeck's settings.
//
// # Resolution order
//
//  1. Defaults
//  2. The TOML file at the given path, or ~/.config/coursedeck/config.toml
//  3. COURSEDECK_* environment variables (a .env file in the working
//     directory is loaded into the environment by main before Load runs)
//
// A missing config file is not an error. Blank values fall back to the
// defaults. Paths may start with ~ and are made absolute.
//
// # Fields
//
//	api_url = "http://localhost:3000"            # COURSEDECK_API_URL
//	session_backend = "file"                     # file | sqlite | memory
//	session_path = "~/.local/share/coursedeck/session.toml"
//	log_path = "~/.local/share/coursedeck/coursedeck.log"  # "-" for stderr, "" to disable
//	log_level = "info"
//	request_timeout_seconds = 10
//
// session_path defaults to session.db when the backend is sqlite and is
// ignored for memory. Unknown backends and log levels are rejected.
package config
