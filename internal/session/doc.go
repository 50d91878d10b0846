// Package session holds the signed-in identity of the coursedeck user.
//
// A session is the triple (token, user id, role), persisted under the keys
// auth_token, user_id and user_role of a storage.Store. The Store never
// caches: every read goes back to storage, so a login or logout performed by
// another coursedeck process is picked up on the next call. Any partial or
// malformed triple reads as signed out.
//
// Consumers that need to react to sign-in changes call Subscribe. The
// callback runs once immediately with the current state and again after each
// Login, Register or Logout. Callbacks run on the goroutine that caused the
// change and must not block.
package session
