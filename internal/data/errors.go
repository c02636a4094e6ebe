package data

import "errors"

// ErrApplicationNotFound is returned by point reads when no row matches.
var ErrApplicationNotFound = errors.New("application not found")
