// Package chat implements multi-agent group conversations: agents with
// pluggable reply strategies, deterministic and model-driven speaker
// selection, termination predicates, nested sub-conversations, and the
// Manager state machine that drives one conversation from seed to result.
package chat
