// Package api provides an HTTP API server for chat sessions and
// semantic search over the loaded index.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string
}
