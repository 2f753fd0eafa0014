package models

import "errors"

// Error kinds shared across the engine. Packages wrap these with
// fmt.Errorf("...: %w", Err...) so callers can errors.Is on the kind.
var (
	// ErrConfiguration indicates the reference catalog or run
	// configuration is internally inconsistent (unknown code, missing
	// exchange rate, bad period range). Aborts the run.
	ErrConfiguration = errors.New("configuration error")

	// ErrDomain indicates a computation was asked for something
	// mathematically invalid (negative radicand, inverted sampling
	// bounds). Aborts the run.
	ErrDomain = errors.New("domain error")

	// ErrValidationFailed is returned by a run whose generated dataset
	// violated at least one invariant. The collected failures travel
	// alongside it; nothing is exported.
	ErrValidationFailed = errors.New("validation failed")
)
