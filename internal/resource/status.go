package resource

import "fmt"

// Status is the life-cycle position of one operation kind.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Kind identifies an independently tracked operation.
type Kind int

const (
	KindList Kind = iota
	KindDetail
	KindSave
	KindDelete

	numKinds
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindDetail:
		return "detail"
	case KindSave:
		return "save"
	case KindDelete:
		return "delete"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// slot tracks status, error and issuance order for one operation kind.
type slot struct {
	status  Status
	err     string
	issued  uint64
	applied uint64
}

func newSlot() slot {
	return slot{status: StatusIdle}
}

// begin issues a new sequence number and enters pending.
func (s *slot) begin() uint64 {
	s.issued++
	s.status = StatusPending
	s.err = ""
	return s.issued
}

// outcome is what a resolution is allowed to do.
type outcome int

const (
	// canceled: the caller's context ended; nothing applies.
	canceled outcome = iota
	// stale: an equal or later request already resolved.
	stale
	// superseded: newer than anything applied, but a later request is
	// still in flight. Data effects apply; status stays pending.
	superseded
	// final: the latest issued request; data and status apply.
	final
)

func (o outcome) String() string {
	switch o {
	case canceled:
		return "canceled"
	case stale:
		return "stale"
	case superseded:
		return "superseded"
	default:
		return "final"
	}
}

// settle records a resolution of request seq. msg is stored on failure.
func (s *slot) settle(seq uint64, ctxDone, failed bool, msg string) outcome {
	latest := seq == s.issued
	if ctxDone {
		if latest && s.status == StatusPending {
			s.status = StatusIdle
		}
		return canceled
	}
	if seq <= s.applied {
		return stale
	}
	s.applied = seq
	if !latest {
		return superseded
	}
	if failed {
		s.status = StatusFailed
		s.err = msg
	} else {
		s.status = StatusSucceeded
	}
	return final
}
