package ctrl

import "errors"

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when a resource already exists.
var ErrAlreadyExists = errors.New("already exists")

// ErrNoIPAddress is returned when a command needs a device IP that was
// never configured.
var ErrNoIPAddress = errors.New("device has no ip address")

// ErrAgentDisabled is returned when a shutdown is requested for a device
// without a reachable companion agent.
var ErrAgentDisabled = errors.New("shutdown agent not enabled")
