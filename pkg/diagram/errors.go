package diagram

import (
	"errors"
	"fmt"

	"github.com/matzehuels/archdiagram/pkg/render"
)

var (
	// ErrInvalidNodeID is returned by [Diagram.AddNode] when an explicit
	// identity is empty or contains control characters.
	ErrInvalidNodeID = errors.New("invalid node ID")

	// ErrDuplicateNodeID is returned by [Diagram.AddNode] when an explicit
	// identity is already taken. Identities derived from labels never
	// collide; they are suffixed instead.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrClusterCycle is returned by [Diagram.MoveCluster] when the move
	// would make a cluster its own ancestor.
	ErrClusterCycle = errors.New("cluster cannot be its own ancestor")

	// ErrForeignRef is returned when a cluster reference belongs to a
	// different diagram or is nil where one is required.
	ErrForeignRef = errors.New("reference does not belong to this diagram")

	// ErrFinalized is returned by every mutating call, and by a second
	// [Diagram.Render], once the diagram has been rendered.
	ErrFinalized = errors.New("diagram already rendered")

	// ErrInvalidDirection is returned by [ParseDirection] and [Diagram.Validate]
	// for a layout direction other than TB, BT, LR or RL.
	ErrInvalidDirection = errors.New("invalid direction")

	// ErrUnsupportedFormat is returned by [Diagram.Render] for an unknown
	// output format.
	ErrUnsupportedFormat = render.ErrUnsupportedFormat
)

// UnknownNodeError reports an edge endpoint that was never created in the
// diagram: a nil reference, a node from another diagram, or an unknown ID.
type UnknownNodeError struct {
	ID string
}

func (e *UnknownNodeError) Error() string {
	if e.ID == "" {
		return "unknown node: nil reference"
	}
	return fmt.Sprintf("unknown node %q", e.ID)
}

// RenderBackendError reports a failure of the rendering engine. Err is the
// engine's error, unmodified.
type RenderBackendError struct {
	Format render.Format
	Err    error
}

func (e *RenderBackendError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Format, e.Err)
}

func (e *RenderBackendError) Unwrap() error { return e.Err }

// OutputWriteError reports that an artifact could not be written to Path.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }
