package scxml

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/arcstate/scxml/internal/conflict"
	"github.com/arcstate/scxml/internal/selection"
	"github.com/arcstate/scxml/internal/step"
	"github.com/arcstate/scxml/tree"
)

// defaultStepCap bounds eventless-transition chains per macrostep: a
// machine that keeps re-enabling eventless transitions without the
// configuration settling is malformed, not merely slow.
const defaultStepCap = 1000

// Interpreter drives a Tree through the microstep/macrostep algorithm. It
// owns the live configuration, the internal event queue, and the recorded
// history values; everything else (guard evaluation, executable content,
// invoke dispatch, persistence, publishing) is a host hook threaded through
// via Option.
//
// An Interpreter is a single cooperative executor: Start/Send/Stop are safe
// to call from multiple goroutines, but calls serialize on an internal lock
// rather than running concurrently — there is no in-process parallelism
// within one Interpreter. SendInternal takes no lock; see its doc.
type Interpreter struct {
	mu sync.Mutex

	tree *tree.Tree
	ctx  *Context

	configuration  *tree.OrderedSet
	statesToInvoke *tree.OrderedSet
	historyValue   map[tree.ID][]tree.ID
	firstEntry     map[tree.ID]bool
	internalQueue  []Event
	lastEvent      Event

	isRunning bool
	binding   Binding
	stepCap   int
	machineID string

	guardEval    GuardEvaluator
	content      ContentExecutor
	invoker      InvokeHandler
	onFirstEntry func(ctx *Context, stateID string)
	errSink      chan<- error
	publisher    Publisher
	persister    Persister
	visualizer   Visualizer
}

// NewInterpreter builds an Interpreter over t. It does not enter any states;
// call Start to do that.
func NewInterpreter(t *tree.Tree, opts ...Option) *Interpreter {
	i := &Interpreter{
		tree:    t,
		stepCap: defaultStepCap,

		guardEval: defaultGuardEvaluator{},
		content:   defaultContentExecutor{},
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.ctx == nil {
		i.ctx = NewContext()
	}
	return i
}

// Start enters the Root state's default initial child and runs the
// machine to quiescence. Calling Start twice is a no-op.
func (i *Interpreter) Start() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.isRunning {
		return
	}

	i.configuration = tree.NewOrderedSet()
	i.statesToInvoke = tree.NewOrderedSet()
	i.historyValue = make(map[tree.ID][]tree.ID)
	i.firstEntry = make(map[tree.ID]bool)
	i.internalQueue = nil
	i.isRunning = true

	synth := i.tree.Node(i.tree.Root).InitialTransition
	i.runMicrostepsUntilQuiescent([]*tree.Transition{synth})
	i.flushInvokes()
}

// Send enqueues an externally-originated event and drives the machine
// through the resulting macrostep (transition selection, conflict
// resolution, the exit/entry microstep, then eventless/internal
// stabilization) before returning. It is the full macrostep boundary
// collapsed into a single synchronous call.
func (i *Interpreter) Send(event Event) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.isRunning {
		return ErrNotRunning
	}
	event.Origin = OriginExternal
	i.lastEvent = event
	if i.publisher != nil {
		_ = i.publisher.Publish(event, i.metaLocked())
	}

	enabled := i.selectTransitionsFor(event.Name)
	i.runMicrostepsUntilQuiescent(enabled)
	i.flushInvokes()
	return nil
}

// SendInternal enqueues an event onto the internal queue. It must only be
// called from within a GuardEvaluator/ContentExecutor callback invoked by
// this Interpreter — that context already holds the interpreter's lock on
// the calling goroutine, so SendInternal never locks itself. Start clears
// the internal queue, so events enqueued before Start are dropped. Calling
// it from any other goroutine races with the running macrostep; route
// external producers through Send.
func (i *Interpreter) SendInternal(event Event) {
	event.Origin = OriginInternal
	i.internalQueue = append(i.internalQueue, event)
}

// Stop halts the interpreter without running any further exits. Safe to
// call on an already-stopped Interpreter.
func (i *Interpreter) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.isRunning = false
}

// IsRunning reports whether the interpreter is running: false before Start,
// after it has reached a final state under Root, or once explicitly Stopped.
func (i *Interpreter) IsRunning() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.isRunning
}

// CurrentConfiguration returns the active state ids, in document order.
func (i *Interpreter) CurrentConfiguration() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.configurationIDsLocked()
}

func (i *Interpreter) configurationIDsLocked() []string {
	ids := i.configuration.SortedByDocOrder(i.tree)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, i.tree.Node(id).ID)
	}
	return out
}

// Context returns the extended-state store threaded through guard/content
// hooks, for hosts that need to seed or inspect it directly.
func (i *Interpreter) Context() *Context {
	return i.ctx
}

// Snapshot captures enough of the running state to rehydrate it later via a
// Persister: the active configuration, recorded history, pending internal
// work and extended state. The Tree itself is not part of the snapshot.
func (i *Interpreter) Snapshot() Snapshot {
	i.mu.Lock()
	defer i.mu.Unlock()

	hv := make(map[string][]string, len(i.historyValue))
	for hid, vals := range i.historyValue {
		ids := make([]string, 0, len(vals))
		for _, v := range vals {
			ids = append(ids, i.tree.Node(v).ID)
		}
		hv[i.tree.Node(hid).ID] = ids
	}

	return Snapshot{
		MachineID:     i.machineID,
		Configuration: i.configurationIDsLocked(),
		HistoryValue:  hv,
		InternalQueue: append([]Event(nil), i.internalQueue...),
		ContextData:   i.ctx.Snapshot(),
		IsRunning:     i.isRunning,
		CapturedAt:    time.Now(),
	}
}

// Restore rehydrates the interpreter's configuration, history value,
// pending internal queue and extended state from a previously captured
// Snapshot, bypassing Start's default-entry walk. The Tree must be the same
// shape the Snapshot was captured from; unresolvable state ids are an error
// rather than a partial restore.
func (i *Interpreter) Restore(snap Snapshot) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	configuration := tree.NewOrderedSet()
	for _, id := range snap.Configuration {
		n, ok := i.tree.Lookup(id)
		if !ok {
			return &RestoreError{StateID: id}
		}
		configuration.Add(n)
	}

	historyValue := make(map[tree.ID][]tree.ID, len(snap.HistoryValue))
	for histID, vals := range snap.HistoryValue {
		hn, ok := i.tree.Lookup(histID)
		if !ok {
			return &RestoreError{StateID: histID}
		}
		resolved := make([]tree.ID, 0, len(vals))
		for _, v := range vals {
			vn, ok := i.tree.Lookup(v)
			if !ok {
				return &RestoreError{StateID: v}
			}
			resolved = append(resolved, vn)
		}
		historyValue[hn] = resolved
	}

	i.configuration = configuration
	i.statesToInvoke = tree.NewOrderedSet()
	i.historyValue = historyValue
	i.firstEntry = make(map[tree.ID]bool)
	for _, id := range snap.Configuration {
		n, _ := i.tree.Lookup(id)
		i.firstEntry[n] = true
	}
	i.internalQueue = append([]Event(nil), snap.InternalQueue...)
	i.ctx.Restore(snap.ContextData)
	i.isRunning = snap.IsRunning
	if i.machineID == "" {
		i.machineID = snap.MachineID
	}
	return nil
}

// SaveSnapshot captures the current state and hands it to the Persister
// wired via WithPersister. Returns an error if no Persister was configured.
func (i *Interpreter) SaveSnapshot() error {
	snap := i.Snapshot()
	if i.persister == nil {
		return fmt.Errorf("scxml: SaveSnapshot called without a Persister (see WithPersister)")
	}
	return i.persister.Save(snap)
}

// RestoreFromPersister loads the Snapshot stored under this interpreter's
// MachineID from the Persister wired via WithPersister and applies it via
// Restore.
func (i *Interpreter) RestoreFromPersister() error {
	if i.persister == nil {
		return fmt.Errorf("scxml: RestoreFromPersister called without a Persister (see WithPersister)")
	}
	snap, err := i.persister.Load(i.machineID)
	if err != nil {
		return err
	}
	return i.Restore(snap)
}

// ExportDOT renders the wired Visualizer's Graphviz DOT view of this
// interpreter's tree and live configuration.
func (i *Interpreter) ExportDOT() (string, error) {
	if i.visualizer == nil {
		return "", fmt.Errorf("scxml: ExportDOT called without a Visualizer (see WithVisualizer)")
	}
	return i.visualizer.ExportDOT()
}

// ExportJSON renders the wired Visualizer's JSON view of this interpreter's
// tree and live configuration.
func (i *Interpreter) ExportJSON() ([]byte, error) {
	if i.visualizer == nil {
		return nil, fmt.Errorf("scxml: ExportJSON called without a Visualizer (see WithVisualizer)")
	}
	return i.visualizer.ExportJSON()
}

// runMicrostepsUntilQuiescent is the macrostep body: run an initial
// enabled set (possibly empty, e.g. an external event nothing matched),
// then keep draining eventless transitions (and, failing that, the
// internal queue, event by event, whether or not each one matches anything)
// until both are exhausted.
func (i *Interpreter) runMicrostepsUntilQuiescent(enabled []*tree.Transition) {
	steps := 0
	if len(enabled) > 0 {
		if !i.stepWithCap(&steps, enabled) {
			return
		}
	}
	for i.isRunning {
		if next := i.selectEventlessTransitions(); len(next) > 0 {
			if !i.stepWithCap(&steps, next) {
				return
			}
			continue
		}
		if len(i.internalQueue) == 0 {
			return
		}
		e := i.internalQueue[0]
		i.internalQueue = i.internalQueue[1:]
		i.lastEvent = e
		if i.publisher != nil {
			_ = i.publisher.Publish(e, i.metaLocked())
		}
		if next := i.selectTransitionsFor(e.Name); len(next) > 0 {
			if !i.stepWithCap(&steps, next) {
				return
			}
		}
	}
}

// stepWithCap runs one microstep, enforcing the eventless-chain quiescence
// bound; it returns false once the cap is exceeded, at which point the
// caller must stop driving further steps for this macrostep.
func (i *Interpreter) stepWithCap(steps *int, transitions []*tree.Transition) bool {
	*steps++
	if *steps > i.stepCap {
		violation := &QuiescenceViolation{StepCap: i.stepCap}
		log.Printf("scxml: %v, halting macrostep", violation)
		i.reportError(violation)
		i.internalQueue = append(i.internalQueue, Event{Name: "error.execution", Origin: OriginInternal})
		return false
	}
	i.microstep(transitions)
	return true
}

// microstep exits, then runs transition content in document order, then
// enters.
func (i *Interpreter) microstep(transitions []*tree.Transition) {
	i.exitStates(transitions)
	i.executeTransitionContent(transitions)
	i.enterStates(transitions)
}

// exitStates runs in four passes over the exit set, in exit order (deepest
// first): history must be recorded against the full pre-exit configuration,
// so every state's history is captured before any of them are removed from
// it, and onexit content only runs once removal is complete.
func (i *Interpreter) exitStates(transitions []*tree.Transition) {
	exitSet := step.ExitSet(i.tree, i.configuration, transitions)
	ordered := exitSet.SortedByDocOrderDesc(i.tree)

	for _, s := range ordered {
		i.statesToInvoke.Remove(s)
	}
	for _, s := range ordered {
		i.recordHistory(i.tree.Node(s))
	}
	for _, s := range ordered {
		i.configuration.Remove(s)
	}
	for _, s := range ordered {
		node := i.tree.Node(s)
		if node.OnExit != nil {
			if err := i.content.Execute(i.ctx, node.OnExit, i.lastEvent); err != nil {
				i.handleContentError(node.ID, err)
			}
		}
		if i.invoker != nil {
			i.invoker.Cancel(node.ID)
		}
	}
}

// recordHistory stores, for each history pseudo-state child of node, the
// children (shallow) or atomic/final descendants (deep) of node that are
// about to be exited — recorded before node's own onexit content runs, per
// the documented ordering decision.
func (i *Interpreter) recordHistory(node *tree.Node) {
	for _, c := range node.Children {
		cn := i.tree.Node(c)
		if cn.Kind != tree.KindHistory {
			continue
		}
		var vals []tree.ID
		if cn.HistoryKind == tree.HistoryDeep {
			i.collectActiveAtomicDescendants(node, &vals)
		} else {
			for _, sib := range node.Children {
				if sib == c {
					continue
				}
				if i.configuration.Has(sib) {
					vals = append(vals, sib)
				}
			}
		}
		i.historyValue[c] = vals
	}
}

func (i *Interpreter) collectActiveAtomicDescendants(node *tree.Node, out *[]tree.ID) {
	for _, c := range node.Children {
		cn := i.tree.Node(c)
		if cn.Kind == tree.KindHistory || !i.configuration.Has(c) {
			continue
		}
		if cn.Kind == tree.KindAtomic || cn.Kind == tree.KindFinal {
			*out = append(*out, c)
			continue
		}
		i.collectActiveAtomicDescendants(cn, out)
	}
}

func (i *Interpreter) executeTransitionContent(transitions []*tree.Transition) {
	ordered := append([]*tree.Transition(nil), transitions...)
	sort.Slice(ordered, func(a, b int) bool { return ordered[a].DocOrder < ordered[b].DocOrder })
	for _, tr := range ordered {
		if tr.Content == nil {
			continue
		}
		if err := i.content.Execute(i.ctx, tr.Content, i.lastEvent); err != nil {
			i.handleContentError(i.tree.Node(tr.Source).ID, err)
		}
	}
}

func (i *Interpreter) enterStates(transitions []*tree.Transition) {
	res := step.EntrySet(i.tree, transitions, i.historyValue)

	for _, s := range res.StatesToEnter.SortedByDocOrder(i.tree) {
		i.configuration.Add(s)
		i.statesToInvoke.Add(s)
		node := i.tree.Node(s)

		if !i.firstEntry[s] {
			i.firstEntry[s] = true
			if i.binding == BindingLate && i.onFirstEntry != nil {
				i.onFirstEntry(i.ctx, node.ID)
			}
		}

		if node.OnEntry != nil {
			if err := i.content.Execute(i.ctx, node.OnEntry, i.lastEvent); err != nil {
				i.handleContentError(node.ID, err)
			}
		}
		if res.StatesForDefaultEntry.Has(s) && node.InitialTransition != nil && node.InitialTransition.Content != nil {
			if err := i.content.Execute(i.ctx, node.InitialTransition.Content, i.lastEvent); err != nil {
				i.handleContentError(node.ID, err)
			}
		}
		if node.Kind == tree.KindFinal {
			i.handleFinalEntry(node)
		}
	}

	for histID, content := range res.DefaultHistoryContent {
		if content == nil {
			continue
		}
		if err := i.content.Execute(i.ctx, content, i.lastEvent); err != nil {
			i.handleContentError(i.tree.Node(histID).ID, err)
		}
	}
}

// handleFinalEntry raises done.state.<parent> whenever a Final child
// enters, and additionally done.state.<grandparent> when grandparent is a
// Parallel all of whose regions have now reached a final state — the
// compound-vs-parallel "done" fan-in.
func (i *Interpreter) handleFinalEntry(node *tree.Node) {
	if node.Parent == tree.NoID {
		return
	}
	parent := i.tree.Node(node.Parent)
	if parent.Kind == tree.KindRoot {
		i.isRunning = false
		return
	}

	i.internalQueue = append(i.internalQueue, doneStateEvent(parent.ID))

	if parent.Parent == tree.NoID {
		return
	}
	grandparent := i.tree.Node(parent.Parent)
	if grandparent.Kind == tree.KindParallel && i.isInFinalState(parent.Parent) {
		i.internalQueue = append(i.internalQueue, doneStateEvent(grandparent.ID))
	}
}

// isInFinalState reports whether s's active descendants have collectively
// reached completion: a Final state always has; a compound/root state has
// if its one active child has; a parallel state has only if every region
// has.
func (i *Interpreter) isInFinalState(s tree.ID) bool {
	n := i.tree.Node(s)
	switch n.Kind {
	case tree.KindFinal:
		return true
	case tree.KindParallel:
		for _, c := range n.Children {
			if !i.isInFinalState(c) {
				return false
			}
		}
		return true
	case tree.KindCompound, tree.KindRoot:
		for _, c := range n.Children {
			if i.configuration.Has(c) {
				return i.isInFinalState(c)
			}
		}
		return false
	default:
		return false
	}
}

func (i *Interpreter) flushInvokes() {
	if i.invoker != nil {
		for _, s := range i.statesToInvoke.Slice() {
			i.invoker.Invoke(i.ctx, i.tree.Node(s).ID)
		}
	}
	i.statesToInvoke = tree.NewOrderedSet()
}

func (i *Interpreter) atomicStatesInConfig() []tree.ID {
	var out []tree.ID
	for _, s := range i.configuration.SortedByDocOrder(i.tree) {
		switch i.tree.Node(s).Kind {
		case tree.KindAtomic, tree.KindFinal:
			out = append(out, s)
		}
	}
	return out
}

func (i *Interpreter) selectTransitionsFor(eventName string) []*tree.Transition {
	enabled := selection.Transitions(i.tree, i.atomicStatesInConfig(), eventName, i.safeGuardEval)
	return conflict.Resolve(i.tree, i.configuration, enabled)
}

func (i *Interpreter) selectEventlessTransitions() []*tree.Transition {
	enabled := selection.Eventless(i.tree, i.atomicStatesInConfig(), i.safeGuardEval)
	return conflict.Resolve(i.tree, i.configuration, enabled)
}

// safeGuardEval recovers from a panicking host guard callback: the
// transition is treated as not matching and the failure is surfaced on the
// error sink rather than crashing the step.
func (i *Interpreter) safeGuardEval(tr *tree.Transition) (result bool) {
	defer func() {
		if r := recover(); r != nil {
			result = false
			i.reportError(&GuardError{SourceID: i.tree.Node(tr.Source).ID, Err: panicAsError(r)})
		}
	}()
	return i.guardEval.Eval(i.ctx, tr.Guard, i.lastEvent)
}

func (i *Interpreter) handleContentError(elementID string, err error) {
	i.reportError(&ContentError{ElementID: elementID, Err: err})
	i.internalQueue = append(i.internalQueue, Event{Name: "error.execution", Origin: OriginInternal, Data: err})
}

func (i *Interpreter) reportError(err error) {
	if i.errSink == nil {
		return
	}
	select {
	case i.errSink <- err:
	default:
	}
}

func (i *Interpreter) metaLocked() EventMeta {
	return EventMeta{
		MachineID:     i.machineID,
		Configuration: i.configurationIDsLocked(),
		Timestamp:     time.Now(),
	}
}
