// Package eventmatch implements SCXML's dotted-prefix event name matching,
// shared by the public Event API and the internal transition-selection
// routines so neither has to import the other.
package eventmatch

// Matches reports whether a transition's declared event name matches an
// incoming event name: "foo.bar" matches "foo.bar" and any "foo.bar.*"
// descendant; "*" matches anything; declared must be non-empty (callers
// handle the eventless case themselves, since eventless transitions are
// selected by a separate routine that never calls this).
func Matches(declared, eventName string) bool {
	if declared == "*" {
		return true
	}
	if declared == eventName {
		return true
	}
	return len(eventName) > len(declared) &&
		eventName[:len(declared)] == declared &&
		eventName[len(declared)] == '.'
}
