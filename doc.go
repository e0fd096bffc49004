/*
Package cvrguide is a dialogue engine that walks citizens through the INEC
Continuous Voter Registration (CVR) portal one step at a time.

Every conversation starts with the universal sign-up guide, then offers a menu of
services (new registration, transfer, update, lost PVC, revalidation). Services
that require revalidation first are intercepted: revalidation runs, and the
original request resumes automatically once it is done.

# Architecture

The engine is a deterministic state machine. A turn is a pure transform of
(message, session state) into (reply, next state); persistence, locking and
transports live in adapters around it:

  - pkg/catalog: the workflow definitions (embedded YAML, replaceable).
  - internal/intent: keyword classification of user messages.
  - internal/runtime: the state machine and reply rendering.
  - pkg/session: per-session serialization over a ports.SessionStore.
  - pkg/adapters: memory, Redis, HTTP and MCP adapters.

# Usage

	eng, err := cvrguide.New()
	if err != nil {
		log.Fatal(err)
	}

	reply, err := eng.HandleMessage(ctx, "session-123", "hi")
	// reply == "**Step 1:** First, let's access the INEC CVR Portal. ..."

	reply, err = eng.HandleMessage(ctx, "session-123", "yes")
	// reply == "**Step 2:** Great! Now Select your desired application. ..."

Sessions are kept in memory by default. Use WithStore with the Redis adapter
(and WithLocker when running several replicas) for shared, durable sessions.
*/
package cvrguide
