// Package model defines the narrow LLM-completion interface consumed by reply
// strategies, plus a deterministic mock for tests. Provider adapters live in
// the openai and anthropic subpackages.
package model
