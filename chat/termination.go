package chat

import (
	"strings"

	"github.com/hupe1980/chatmesh/core"
)

// TerminationPredicate decides, after each appended reply, whether the
// conversation has reached a natural end. The turn cap is enforced
// separately and unconditionally.
type TerminationPredicate func(msg core.Message) bool

// ContainsToken terminates when a reply contains the given token, e.g.
// "TERMINATE".
func ContainsToken(token string) TerminationPredicate {
	return func(msg core.Message) bool {
		return strings.Contains(msg.Content, token)
	}
}

// Never keeps the conversation running until the turn cap.
func Never() TerminationPredicate {
	return func(core.Message) bool { return false }
}

// AnyOf terminates when any of the given predicates matches.
func AnyOf(predicates ...TerminationPredicate) TerminationPredicate {
	return func(msg core.Message) bool {
		for _, p := range predicates {
			if p(msg) {
				return true
			}
		}
		return false
	}
}
