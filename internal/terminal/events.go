package terminal

import "time"

// Event is a notification delivered on a session's event channel.
// Concrete types are EventStarted, EventUpdate, EventTitle, and
// EventExited; consumers dispatch with a type switch.
type Event interface {
	// When returns the time at which the event was produced.
	When() time.Time
}

// eventTime supplies the When method for concrete events.
type eventTime struct {
	when time.Time
}

func (e *eventTime) When() time.Time {
	return e.when
}

func now() eventTime {
	return eventTime{when: time.Now()}
}

// EventStarted is delivered once per run after the child process has
// been spawned.
type EventStarted struct {
	eventTime

	// ID is the session identifier.
	ID string

	// PID is the child process ID.
	PID int
}

func newEventStarted(id string, pid int) *EventStarted {
	return &EventStarted{eventTime: now(), ID: id, PID: pid}
}

// EventUpdate signals that the screen contents changed. Updates are
// coalesced: a slow consumer sees at least one update for any burst of
// output, not one per chunk.
type EventUpdate struct {
	eventTime
}

func newEventUpdate() *EventUpdate {
	return &EventUpdate{eventTime: now()}
}

// EventTitle is delivered when the child application sets the terminal
// title. Only the latest title matters; intermediate titles may be
// dropped under backpressure.
type EventTitle struct {
	eventTime

	// Title is the new terminal title.
	Title string
}

func newEventTitle(title string) *EventTitle {
	return &EventTitle{eventTime: now(), Title: title}
}

// EventExited is delivered exactly once per run when the child process
// has exited, after all of its output has been applied to the screen.
type EventExited struct {
	eventTime

	// Status describes how the child exited.
	Status ExitStatus
}

func newEventExited(status ExitStatus) *EventExited {
	return &EventExited{eventTime: now(), Status: status}
}
