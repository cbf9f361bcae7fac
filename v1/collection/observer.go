package collection

import (
	"time"

	"github.com/Aleph-Alpha/agentmem/v1/observability"
)

// observe reports one finished operation to the configured observer.
// Meant to be deferred at the top of each exported operation with a
// pointer to its named error result.
func (c *Collection) observe(operation, subResource string, start time.Time, size int64, err *error) {
	if c.observer == nil {
		return
	}
	var opErr error
	if err != nil {
		opErr = *err
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Component:   "collection",
		Operation:   operation,
		Resource:    c.name,
		SubResource: subResource,
		Duration:    time.Since(start),
		Error:       opErr,
		Size:        size,
	})
}
