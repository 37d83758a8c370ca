// Package state keeps a per-user conversation state behind a pluggable backend.
// States are opaque strings; callers encode their own payload into them.
package state
