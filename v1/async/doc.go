// Package async provides non-blocking facades over the store and
// collection types: each call is dispatched to a bounded pool and its
// result delivered through a Future. The facades add no semantics of
// their own; argument validation, error kinds and side effects are
// exactly those of the wrapped synchronous methods.
package async
