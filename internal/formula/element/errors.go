package element

import "errors"

// ErrUnknownKind is returned when a kind name or value is not recognized.
var ErrUnknownKind = errors.New("unknown element kind")
