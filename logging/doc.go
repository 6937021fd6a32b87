// Package logging provides a tiny abstraction over slog so downstream code can
// depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer ChatMeshLogger with contextual
// helpers (conversation, feature, component) and domain specific logging
// helpers for turns, tools and model calls.
package logging
