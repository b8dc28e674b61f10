// Package middleware contains HTTP middleware shared by the linkboard servers.
package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behaviour.
type Middleware func(next http.Handler) http.Handler
