/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package balance

import (
	"context"
	"fmt"

	"github.com/wenlng/go-service-balance/balance/instance"
)

// RequestFunc is the unit of work executed against a chosen server
type RequestFunc[T any] func(ctx context.Context, target *instance.ServiceInstance) (T, error)

// Execute runs fn against a server chosen for the service. Exactly one
// statistics sample is recorded for the call, success or failure, and
// errors returned by fn are handed back to the caller unchanged.
func Execute[T any](ctx context.Context, c *Client, serviceName string, fn RequestFunc[T]) (T, error) {
	return ExecuteWithHint(ctx, c, serviceName, "", fn)
}

// ExecuteWithHint runs fn against a server chosen with the hint as the
// selection key.
func ExecuteWithHint[T any](ctx context.Context, c *Client, serviceName, hint string, fn RequestFunc[T]) (T, error) {
	var zero T

	target, err := c.ChooseWithHint(serviceName, hint)
	if err != nil {
		return zero, err
	}
	if target == nil {
		return zero, noInstanceError(serviceName)
	}

	return ExecuteOn(ctx, c, serviceName, target, fn)
}

// ExecuteOn runs fn against the given server of the service, recording
// the call in the service statistics.
func ExecuteOn[T any](ctx context.Context, c *Client, serviceName string, target *instance.ServiceInstance, fn RequestFunc[T]) (T, error) {
	var zero T

	if !target.IsResolved() {
		return zero, noInstanceError(serviceName)
	}

	entry, err := c.factory.entry(serviceName)
	if err != nil {
		return zero, err
	}

	recorder := entry.stats.NewRecorder(target)
	defer func() {
		if rec := recover(); rec != nil {
			recorder.RecordFailure(fmt.Errorf("request panicked: %v", rec))
			panic(rec)
		}
	}()

	value, err := fn(ctx, target)
	if err != nil {
		recorder.RecordFailure(err)
		return zero, err
	}

	recorder.RecordSuccess()
	return value, nil
}
