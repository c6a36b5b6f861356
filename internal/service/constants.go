package service

import "time"

// Timeout constants for external commands
const (
	// DefaultLocalTimeout bounds commands that only touch the local repository
	DefaultLocalTimeout = 30 * time.Second
	// DefaultNetworkTimeout bounds commands that talk to a remote
	DefaultNetworkTimeout = 120 * time.Second
)
