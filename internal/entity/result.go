package entity

type Status int

const (
	StatusOK Status = iota
	StatusDegraded
	StatusFatal
)

func (s Status) String() string {
	return [...]string{"ok", "degraded", "fatal"}[s]
}

type Reason string

const (
	ReasonNoHistory   Reason = "no_history"
	ReasonQueryFailed Reason = "query_failed"
)

// Result is the outcome of a version-control query: Ok(value),
// Degraded(sentinel value) or Fatal(error).
type Result[T any] struct {
	Value  T
	Status Status
	Reason Reason
	Err    error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusOK}
}

func Degraded[T any](v T, reason Reason, err error) Result[T] {
	return Result[T]{Value: v, Status: StatusDegraded, Reason: reason, Err: err}
}

func Fatal[T any](err error) Result[T] {
	return Result[T]{Status: StatusFatal, Err: err}
}

// Usable reports whether Value holds real data rather than a sentinel.
func (r Result[T]) Usable() bool {
	return r.Status == StatusOK
}
