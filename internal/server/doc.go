// Package server hosts the files manager HTTP API.
//
// It assembles a middleware chain of request IDs, logging, audit, security
// headers, CORS, rate limiting, and session auth, then routes the public
// endpoints onto the api package handlers.
package server
