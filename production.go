package scxml

import "time"

// Publisher observes every event the interpreter processes, the way the
// reference engine's EventPublisher lets a host mirror traffic onto a
// channel, log, or message bus without the core knowing anything about the
// transport.
type Publisher interface {
	Publish(event Event, meta EventMeta) error
}

// EventMeta accompanies a published Event with the bookkeeping a Publisher
// typically wants to log or forward alongside it.
type EventMeta struct {
	MachineID     string
	Configuration []string
	Timestamp     time.Time
}

// Snapshot is the serializable projection of an Interpreter's runtime state:
// enough to rehydrate configuration, history and pending internal work
// after a restart. It deliberately excludes the Tree itself (guards and
// content are opaque Go values a Persister cannot serialize; the host is
// expected to rebuild the same Tree and pass it to NewInterpreter again).
type Snapshot struct {
	MachineID     string
	Configuration []string
	HistoryValue  map[string][]string
	InternalQueue []Event
	ContextData   map[string]any
	IsRunning     bool
	CapturedAt    time.Time
}

// Persister saves and loads Snapshots, the way the reference engine's
// JSONPersister/YAMLPersister round-trip a MachineConfig.
type Persister interface {
	Save(snap Snapshot) error
	Load(machineID string) (Snapshot, error)
}

// Visualizer renders a Tree for inspection/debugging, the way the reference
// engine's visualizer exports a running machine's shape.
type Visualizer interface {
	ExportDOT() (string, error)
	ExportJSON() ([]byte, error)
}
