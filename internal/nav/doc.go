// Package nav models coursedeck's screens as routes and decides which of
// them the current user may open.
//
// Each Page has a Requirement. Guard.Check is consulted on every
// navigation and reads the identity afresh each time: pages needing a
// signed-in user send everyone else to Login, and the course editor sends
// signed-in non-teachers to the course list.
//
// Routes render to and parse from location strings such as
// /courses/3/lessons/7, which is what the -open flag accepts.
package nav
