// Package backend connects the decision core to a display layer. A backend
// produces the events the core consumes and executes the actions the core
// emits; the engine owns the loop between the two.
package backend

import "github.com/geket/lamella/internal/wm"

// Backend is the display layer as the engine sees it.
type Backend interface {
	// Events returns the event stream. The backend closes the channel when
	// the stream ends.
	Events() <-chan wm.Event
	// Apply executes one action. A failed action is reported to the caller;
	// it does not invalidate the rest of the batch.
	Apply(action wm.Action) error
	// Close releases backend resources and ends the event stream.
	Close() error
}
