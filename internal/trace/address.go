package trace

import "fmt"

// Address is a raw runtime pointer recorded in a trace. It identifies an
// object in the traced process and is only ever compared for equality.
type Address uint64

func (a Address) String() string {
	return fmt.Sprintf("0x%x", uint64(a))
}

// Kind is the type tag of a traced object (_lf_trace_object_t).
type Kind int32

const (
	KindReactor Kind = iota // reactor self struct
	KindTrigger             // timer or action
	KindUser                // user-defined trace object
)

func (k Kind) String() string {
	switch k {
	case KindReactor:
		return "reactor"
	case KindTrigger:
		return "trigger"
	case KindUser:
		return "user"
	default:
		return fmt.Sprintf("kind(%d)", int32(k))
	}
}

func (k Kind) valid() bool {
	return k >= KindReactor && k <= KindUser
}
