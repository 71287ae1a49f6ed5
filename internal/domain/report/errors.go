package report

import "errors"

var (
	ErrUnknownReportKind  = errors.New("unknown report kind")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
	ErrReportRenderFailed = errors.New("failed to render report")
)
