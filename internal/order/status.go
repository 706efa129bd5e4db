package order

// Status is the closed set of order states. The integer values are the
// status_transactions row ids seeded at startup.
type Status int64

const (
	StatusPending  Status = 1
	StatusCanceled Status = 2
	StatusSettled  Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCanceled:
		return "canceled"
	case StatusSettled:
		return "settled"
	default:
		return "unknown"
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCanceled, StatusSettled:
		return true
	}
	return false
}

// transitions is the explicit state table. Both terminal states only allow
// the idempotent self-transition so duplicate webhook deliveries are no-ops.
var transitions = map[Status][]Status{
	StatusPending:  {StatusPending, StatusCanceled, StatusSettled},
	StatusCanceled: {StatusCanceled},
	StatusSettled:  {StatusSettled},
}

// CanTransition reports whether moving from s to target is allowed.
func (s Status) CanTransition(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}
