// Package artifact archives generated reports in S3-compatible object
// storage so past weekly reports stay retrievable.
package artifact

import "errors"

// ErrNotFound is returned when a stored report does not exist.
var ErrNotFound = errors.New("artifact: report not found")
