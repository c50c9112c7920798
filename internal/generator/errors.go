package generator

import "errors"

var (
	// ErrContentDirMissing indicates the content root does not exist or is not a directory.
	ErrContentDirMissing = errors.New("content directory not found")

	// ErrNoVersions indicates the content root holds no non-empty version directory.
	ErrNoVersions = errors.New("no version directories with content")

	// ErrDefaultVersionMissing indicates the requested default version has no directory.
	ErrDefaultVersionMissing = errors.New("default version not present in content")
)
