package status

import "sync/atomic"

type Status int64

const (
	Ready Status = iota
	Running
	Closed
)

func (s *Status) Load() Status {
	return Status(atomic.LoadInt64((*int64)(s)))
}

func (s *Status) Running() bool {
	return s.Load() == Running
}

func (s *Status) Closed() bool {
	return s.Load() == Closed
}

// CAP atomically moves the status from one value to another, it reports
// whether this caller performed the transition.
func CAP(statusPointer *Status, from, to Status) bool {
	return atomic.CompareAndSwapInt64((*int64)(statusPointer), int64(from), int64(to))
}
