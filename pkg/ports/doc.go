/*
Package ports defines the driven ports (interfaces) of the CVR guide engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various catalog sources, storage backends and lock providers.

# Key Interfaces

  - GuideCatalog: Read-only access to workflow definitions in a stable order.
  - SessionStore: Persists and loads per-conversation SessionState.
  - DistributedLocker: Provides distributed locking for concurrent session access across replicas.
*/
package ports
