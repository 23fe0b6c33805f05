package events

import "fmt"

// MalformedEventError reports a raw record that is missing a mandatory field
// or is otherwise unusable. Normalization is all-or-nothing: one malformed
// record aborts the whole pass.
type MalformedEventError struct {
	Seq    int
	Reason string
	Record RawRecord
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event at seq %d: %s", e.Seq, e.Reason)
}

// UnresolvedActorError reports a hero reference that does not match the
// known match roster. Carries the offending record for diagnostics.
type UnresolvedActorError struct {
	Seq    int
	Actor  string
	Record RawRecord
}

func (e *UnresolvedActorError) Error() string {
	return fmt.Sprintf("unresolved actor %q at seq %d", e.Actor, e.Seq)
}
