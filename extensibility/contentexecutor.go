package extensibility

import (
	"fmt"
	"log"
	"time"

	scxml "github.com/arcstate/scxml"
	"github.com/arcstate/scxml/tree"
)

// DefaultContentExecutor runs function-typed content; anything else raises
// ContentError so the interpreter can enqueue error.execution and continue.
type DefaultContentExecutor struct{}

func (DefaultContentExecutor) Execute(ctx *scxml.Context, content tree.ContentRef, event scxml.Event) error {
	switch c := content.(type) {
	case nil:
		return nil
	case func(*scxml.Context, scxml.Event):
		c(ctx, event)
		return nil
	case func(*scxml.Context, scxml.Event) error:
		return c(ctx, event)
	case string:
		return fmt.Errorf("content id %q not registered", c)
	default:
		return fmt.Errorf("unknown content type: %T", content)
	}
}

// LoggingContentExecutor wraps another ContentExecutor and logs around
// execution, the way the reference engine's LoggingActionRunner wraps
// action dispatch.
type LoggingContentExecutor struct {
	inner scxml.ContentExecutor
}

func NewLoggingContentExecutor(inner scxml.ContentExecutor) *LoggingContentExecutor {
	return &LoggingContentExecutor{inner: inner}
}

func (l *LoggingContentExecutor) Execute(ctx *scxml.Context, content tree.ContentRef, event scxml.Event) error {
	start := time.Now()
	err := l.inner.Execute(ctx, content, event)
	log.Printf("content %v for event %q completed in %v: %v", content, event.Name, time.Since(start), err)
	return err
}
