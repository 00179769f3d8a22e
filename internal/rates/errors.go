package rates

import "errors"

// Failure classes of a single upstream fetch. Fetchers wrap one of these with %w
// so callers can branch on errors.Is without parsing messages.
var (
	ErrTransport  = errors.New("transport error")
	ErrProtocol   = errors.New("protocol error")
	ErrParse      = errors.New("parse error")
	ErrValidation = errors.New("validation error")
)

// ErrUnavailable is returned when no rate table has ever been populated.
var ErrUnavailable = errors.New("exchange rates unavailable")

// ErrNoValue reports a conversion slot with neither a fresh nor a cached value.
var ErrNoValue = errors.New("no value")
