/*
Package domain contains the core domain models for the Folio execution boundary.

It defines the value types exchanged between validation, execution, and the
higher-level operations, plus the error taxonomy. This package is kept pure
and free of external dependencies like I/O or process creation, following
Hexagonal Architecture principles.

# Key Entities

  - CommandSpec: An ordered argument vector plus execution settings. The only
    representation of "a command to run"; no shell-string form exists.
  - ExecutionResult: Exit code, captured output, and elapsed time of one process.
  - ValidationError / CommandFailedError / CommandTimeoutError / PDFNotProducedError:
    The failure taxonomy surfaced to callers.
*/
package domain
