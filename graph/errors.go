// SPDX-License-Identifier: Apache-2.0

package graph

import "errors"

// Sentinel errors returned by the graph package.
var (
	ErrPinNotFound        = errors.New("pin not found")
	ErrNodeNotFound       = errors.New("node not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrIncompatiblePins   = errors.New("no connection created: incompatible pins")
	ErrSamePinDirection   = errors.New("no connection created: source must be an output pin and destination an input pin")
	ErrSameNode           = errors.New("no connection created: pins belong to the same node")
	ErrNotReroute         = errors.New("node is not a reroute node")
	ErrGroupNotFound      = errors.New("group not found")
)
