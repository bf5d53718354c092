// Package middleware holds the Echo middleware shared by every route:
// request ids, the request-scoped logger, Clerk session parsing, New Relic
// tracing, rate limiting and the global error handler.
package middleware
