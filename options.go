package scxml

import "github.com/arcstate/scxml/tree"

// GuardEvaluator decides whether a transition's opaque guard passes. The
// core never inspects a GuardRef itself — it only ever calls Eval, the way
// the reference engine's extensibility.GuardEvaluator decouples guard
// evaluation from the core machine.
type GuardEvaluator interface {
	Eval(ctx *Context, guard tree.GuardRef, event Event) bool
}

// ContentExecutor runs a state's or transition's opaque executable content.
// Absent any host-supplied executor, the interpreter falls back to a no-op.
type ContentExecutor interface {
	Execute(ctx *Context, content tree.ContentRef, event Event) error
}

// InvokeHandler tracks (without running) the invoke lifecycle: per the
// Non-goals, the core only tracks which states require invocation at
// macrostep boundaries and which pending invocations a cancelled state's
// exit should cancel. Both methods are optional hooks; a nil InvokeHandler
// means invocations are tracked internally but never dispatched anywhere.
type InvokeHandler interface {
	Invoke(ctx *Context, stateID string)
	Cancel(stateID string)
}

// Binding selects early or late data-model initialization timing, tracked
// on the interpreter's state even though this core has no data model of its
// own to initialize — OnFirstEntry (set via WithOnFirstEntry) is the host's
// hook for whatever "initialize the data model" means to it.
type Binding uint8

const (
	BindingEarly Binding = iota
	BindingLate
)

// defaultGuardEvaluator supplies identity guards (always true) when a host
// registers none: a nil guard is vacuously true, and a function
// guard is called directly; any other GuardRef is treated as "no guard
// registered" and passes.
type defaultGuardEvaluator struct{}

func (defaultGuardEvaluator) Eval(ctx *Context, guard tree.GuardRef, event Event) bool {
	if guard == nil {
		return true
	}
	if g, ok := guard.(func(*Context, Event) bool); ok {
		return g(ctx, event)
	}
	return true
}

// defaultContentExecutor supplies no-op content when a host registers none:
// function-typed content runs directly, anything else is ignored.
type defaultContentExecutor struct{}

func (defaultContentExecutor) Execute(ctx *Context, content tree.ContentRef, event Event) error {
	switch c := content.(type) {
	case nil:
		return nil
	case func(*Context, Event):
		c(ctx, event)
		return nil
	case func(*Context, Event) error:
		return c(ctx, event)
	default:
		return nil
	}
}

// Option configures an Interpreter at construction time, generalizing the
// reference engine's functional-options MachineOption to the hierarchical
// core.
type Option func(*Interpreter)

// WithGuardEvaluator overrides the identity-guard default.
func WithGuardEvaluator(g GuardEvaluator) Option {
	return func(i *Interpreter) { i.guardEval = g }
}

// WithContentExecutor overrides the no-op-content default.
func WithContentExecutor(c ContentExecutor) Option {
	return func(i *Interpreter) { i.content = c }
}

// WithInvokeHandler wires a host hook for invoke/cancel notifications.
func WithInvokeHandler(h InvokeHandler) Option {
	return func(i *Interpreter) { i.invoker = h }
}

// WithBinding selects early or late data-model binding semantics.
func WithBinding(b Binding) Option {
	return func(i *Interpreter) { i.binding = b }
}

// WithOnFirstEntry registers a callback run the first time each state is
// entered over the interpreter's lifetime, only when binding is late.
func WithOnFirstEntry(fn func(ctx *Context, stateID string)) Option {
	return func(i *Interpreter) { i.onFirstEntry = fn }
}

// WithStepCap overrides the default eventless-transition quiescence bound.
func WithStepCap(n int) Option {
	return func(i *Interpreter) { i.stepCap = n }
}

// WithErrorSink registers a channel errors are reported to (GuardError,
// ContentError, *QuiescenceViolation). Sends are non-blocking: a full or nil
// channel silently drops the report rather than stalling the machine.
func WithErrorSink(ch chan<- error) Option {
	return func(i *Interpreter) { i.errSink = ch }
}

// WithPublisher wires an EventPublisher that observes every processed event.
func WithPublisher(p Publisher) Option {
	return func(i *Interpreter) { i.publisher = p }
}

// WithMachineID sets the identifier a Persister stores/loads snapshots
// under; it has no other effect on execution.
func WithMachineID(id string) Option {
	return func(i *Interpreter) { i.machineID = id }
}

// WithContext swaps in a pre-populated Context instead of a fresh one, for
// rehydrating a Persister-loaded Snapshot's extended state before Start.
func WithContext(ctx *Context) Option {
	return func(i *Interpreter) { i.ctx = ctx }
}

// WithPersister wires a Persister that SaveSnapshot/RestoreFromPersister use
// to round-trip this interpreter's state under its MachineID.
func WithPersister(p Persister) Option {
	return func(i *Interpreter) { i.persister = p }
}

// WithVisualizer wires a Visualizer so a host can call ExportDOT/ExportJSON
// directly on the Interpreter instead of constructing its own adapter.
func WithVisualizer(v Visualizer) Option {
	return func(i *Interpreter) { i.visualizer = v }
}
