/*
Package ports defines the driven ports (interfaces) for the Folio execution boundary.

These interfaces decouple the safe operations (git, latex, scripts) from the
concrete process and locking backends, allowing tests to substitute recording
fakes and deployments to choose between local and distributed locking.

# Key Interfaces

  - Executor: Runs one operating-system process from an explicit argument vector.
  - Locker: Serializes multi-pass compilation per project directory.
*/
package ports
