package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Failures reported for issued actions. All are recoverable: the next
// evaluation tick re-decides from a fresh snapshot.
var (
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInsufficientSupply    = errors.New("insufficient supply")
	ErrNoProductionSource    = errors.New("no production source available")
	ErrNoValidBuildSite      = errors.New("no valid build site")
	ErrActionRejected        = errors.New("action rejected by engine")
)

// ActionError carries the engine's error code alongside the sentinel it maps to.
type ActionError struct {
	Kind ActionKind
	Code string
	Err  error
}

func (e *ActionError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Kind, e.Err, e.Code)
}

func (e *ActionError) Unwrap() error { return e.Err }

// engineErrors maps engine error codes to sentinels.
var engineErrors = map[string]error{
	"insufficient_minerals":      ErrInsufficientResources,
	"insufficient_gas":           ErrInsufficientResources,
	"insufficient_supply":        ErrInsufficientSupply,
	"no_larva":                   ErrNoProductionSource,
	"no_worker":                  ErrNoProductionSource,
	"unit_busy":                  ErrNoProductionSource,
	"unit_does_not_exist":        ErrNoProductionSource,
	"unbuildable_location":       ErrNoValidBuildSite,
	"invalid_tile_position":      ErrNoValidBuildSite,
	"no_build_location":          ErrNoValidBuildSite,
	"insufficient_tech":          ErrActionRejected,
	"incompatible_unittype":      ErrActionRejected,
	"incompatible_state":         ErrActionRejected,
	"unable_to_hit":              ErrActionRejected,
	"unit_not_owned":             ErrActionRejected,
	"invalid_parameter":          ErrActionRejected,
	"currently_researching":      ErrActionRejected,
	"out_of_range":               ErrActionRejected,
	"cannot_build_from_location": ErrNoValidBuildSite,
}

// ErrorFromCode maps an engine error code to a sentinel. Codes are matched
// case-insensitively; unknown codes map to ErrActionRejected.
func ErrorFromCode(code string) error {
	if err, ok := engineErrors[strings.ToLower(strings.TrimSpace(code))]; ok {
		return err
	}
	return ErrActionRejected
}

// NewActionError builds an ActionError for kind from an engine error code.
func NewActionError(kind ActionKind, code string) *ActionError {
	return &ActionError{Kind: kind, Code: code, Err: ErrorFromCode(code)}
}

// Reason returns a short label for err suitable for metrics and display.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInsufficientResources):
		return "insufficient_resources"
	case errors.Is(err, ErrInsufficientSupply):
		return "insufficient_supply"
	case errors.Is(err, ErrNoProductionSource):
		return "no_production_source"
	case errors.Is(err, ErrNoValidBuildSite):
		return "no_valid_build_site"
	default:
		return "rejected"
	}
}
