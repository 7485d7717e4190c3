package web

import "context"

// Server is the part of the HTTP layer the app lifecycle drives.
type Server interface {
	Start(ctx context.Context) error
	Stop() error
}

// NoopServer lets the app run without listening, for tests and dry runs.
type NoopServer struct{}

func (n *NoopServer) Start(ctx context.Context) error { return nil }
func (n *NoopServer) Stop() error                     { return nil }
