package assets

import "errors"

// Sentinel errors for asset operations.
var (
	ErrNotFound        = errors.New("asset not found")
	ErrInvalidName     = errors.New("invalid asset name")
	ErrInvalidBasePath = errors.New("invalid base path")
	ErrAssetRead       = errors.New("failed to read asset")
)
