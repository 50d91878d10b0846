// Package api is the HTTP client for the course platform REST API.
//
// Each endpoint family is described by a small service interface
// (AuthService, CourseService, LessonService, UserService) that Client
// satisfies. Calls return typed payloads or an error; a non-2xx response
// becomes a *StatusError carrying the status code and the server's message,
// so callers can branch with IsUnauthorized, IsForbidden and IsNotFound.
//
// Session handling is layered on with Client.Use. AuthTransport attaches
// the stored bearer token to every request except login and registration,
// stamps an X-Request-ID header, and on a 401 logs the user out and invokes
// its redirect callback exactly once until rearmed. The original error is
// still returned to the caller.
package api
