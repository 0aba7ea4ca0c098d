package report

import "errors"

var (
	// ErrShape indicates that state labels and data rows disagree in width.
	ErrShape = errors.New("report: data width does not match state count")

	// ErrNoData indicates an empty history or ensemble.
	ErrNoData = errors.New("report: nothing to render")
)
