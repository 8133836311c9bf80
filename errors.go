package iak

import "errors"

var (
	ErrMissingFile  = errors.New("missing file")
	ErrParse        = errors.New("extraction parse error")
	ErrExport       = errors.New("export failure")
	ErrMissingInput = errors.New("combine missing input")
)
