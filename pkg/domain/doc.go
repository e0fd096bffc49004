/*
Package domain contains the core domain models of the CVR guide engine.

It defines the immutable catalog records (Workflow, Step), the mutable per-conversation
SessionState, the discrete Intent vocabulary and the lifecycle events emitted while a turn
is processed. This package is kept pure and free of I/O and persistence concerns.

# Key Entities

  - Workflow: A named, ordered sequence of Steps for one bureaucratic service.
  - SessionState: The position of one conversation (active workflow, step index,
    completed workflows, pending workflow).
  - Intent: What a user utterance asks the engine to do (advance, retreat, restart...).
  - LifecycleHooks: Callbacks fired on workflow entry, completion, interception and resumption.
*/
package domain
