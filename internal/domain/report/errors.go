package report

import "errors"

var ErrInvalidRange = errors.New("range must be week or month")
