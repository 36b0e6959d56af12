package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Access declares who may call an endpoint.
type Access int

const (
	// AccessPublic endpoints ignore the Authorization header.
	AccessPublic Access = iota
	// AccessOptional endpoints resolve a bearer token when one is sent.
	AccessOptional
	// AccessUser endpoints require a valid bearer token.
	AccessUser
	// AccessAdmin endpoints require a valid token for an admin.
	AccessAdmin
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessOptional:
		return "optional"
	case AccessUser:
		return "user"
	case AccessAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Endpoint defines both an HTTP route and its corresponding CLI command.
// This provides a single source of truth for API operations.
type Endpoint interface {
	// Route returns the HTTP method, path, and handler for this endpoint.
	Route() (method, path string, handler http.HandlerFunc)

	// Access returns the authentication the endpoint requires.
	Access() Access

	// Command returns a Cobra command that calls this endpoint via HTTP.
	// getServerURL is called at runtime to get the server URL (deferred evaluation).
	Command(getServerURL func() string) *cobra.Command
}

// Grouped endpoints are nested under a parent command named by Group
// (e.g. "prompts" for `freestyle api prompts list`).
type Grouped interface {
	Group() string
}
