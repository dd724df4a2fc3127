// Package server wires and runs the application's transport servers.
//
// It provides orchestration for the HTTP API and the gRPC health server,
// including startup and graceful shutdown of all enabled transports once
// the run context is cancelled.
package server
