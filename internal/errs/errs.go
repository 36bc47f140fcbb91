// Package errs defines the solver's small sentinel error hierarchy. Callers
// use errors.Is against these sentinels; the errors returned by the card,
// deck and holdem packages and by orchestrator.Config.Validate wrap one of
// them with fmt.Errorf("...: %w", ...). ErrTransient, ErrPersistenceParse
// and ErrPersistenceOpen are not returned by any package; the persist
// package wraps the underlying I/O error instead.
package errs

import "errors"

// ErrInvalidInput marks malformed input handed to the core: a bad card
// string, an out-of-range player index, a non-52 fixed deck order, a
// negative stack, an out-of-range player count.
var ErrInvalidInput = errors.New("invalid input")

// ErrContractViolation marks a precondition violation by the caller: an
// action applied to the wrong player, to a folded player, or to a
// terminated hand; an illegal raise size.
var ErrContractViolation = errors.New("contract violation")

// ErrTransient marks a recoverable condition the core handled itself, such
// as the action-abstraction fallback emitting a fold when no legal action
// was generated.
var ErrTransient = errors.New("transient")

// ErrPersistenceParse marks a single malformed line during infoset map
// loading; the offending line is skipped and loading continues.
var ErrPersistenceParse = errors.New("persistence parse error")

// ErrPersistenceOpen marks a failure to open the persistence file, on
// either load (file not found) or save (cannot create/write).
var ErrPersistenceOpen = errors.New("persistence open error")
