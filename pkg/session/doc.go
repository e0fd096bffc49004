/*
Package session serializes access to conversation state.

A Manager pairs a ports.SessionStore with a per-session mutex, so two messages
for the same session never interleave their load-transform-save cycle. Locks are
reference counted and dropped once idle. An optional ports.DistributedLocker
extends the guarantee across replicas sharing a Redis store.
*/
package session
