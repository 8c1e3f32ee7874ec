// Package api provides the REST client for the platform API. Write
// operations return the server's authoritative entity so callers can
// reconcile local state wholesale.
package api
