package scxml

import "github.com/arcstate/scxml/internal/eventmatch"

// Origin tags where an Event came from.
type Origin uint8

const (
	OriginExternal Origin = iota
	OriginInternal
	OriginDone
)

func (o Origin) String() string {
	switch o {
	case OriginExternal:
		return "external"
	case OriginInternal:
		return "internal"
	case OriginDone:
		return "done"
	default:
		return "unknown"
	}
}

// Event is the unit the interpreter selects transitions against.
// Name matching uses dotted-hierarchical prefix semantics: see NameMatches.
type Event struct {
	Name   string
	Data   any
	Origin Origin
}

// NewEvent constructs an externally-originated event; internal producers
// (done-event emission, host executable content) set Origin explicitly.
func NewEvent(name string, data any) Event {
	return Event{Name: name, Data: data, Origin: OriginExternal}
}

// doneStateEvent builds the done.state.<id> event a Final entry raises.
func doneStateEvent(parentID string) Event {
	return Event{Name: "done.state." + parentID, Origin: OriginDone}
}

// NameMatches reports whether a transition's declared event name matches an
// incoming event name under SCXML's dotted-prefix rule: "foo.bar" matches
// event names "foo.bar" and any "foo.bar.*" (dot-delimited descendant);
// "*" matches anything; an empty declared name matches only the eventless
// case (handled by callers, since eventless transitions carry no Event at
// all — this function is only ever called with a non-empty declared name).
func NameMatches(declared, eventName string) bool {
	return eventmatch.Matches(declared, eventName)
}
