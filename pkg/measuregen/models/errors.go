package models

import "errors"

// ErrToolUnavailable indicates a required external tool is not installed.
var ErrToolUnavailable = errors.New("external tool unavailable")

// ErrEngraving indicates the engraver or rasterizer failed to produce output.
var ErrEngraving = errors.New("engraving failed")

// ErrMalformedPage indicates an engraved page does not have the expected shape.
var ErrMalformedPage = errors.New("malformed page")

// ErrConfiguration indicates unusable score metadata or degenerate sizes.
var ErrConfiguration = errors.New("invalid configuration")
