package routes

import "errors"

var (
	// ErrNoVersions indicates a registry was built without any version trees.
	ErrNoVersions = errors.New("no documentation versions")

	// ErrDuplicateVersion indicates the same version id was registered twice.
	ErrDuplicateVersion = errors.New("duplicate documentation version")

	// ErrEmptyTree indicates a version has no routes or an empty version id.
	ErrEmptyTree = errors.New("empty route tree")

	// ErrInvalidNode indicates a node is missing its title or has a malformed href.
	ErrInvalidNode = errors.New("invalid route node")

	// ErrDuplicateHref indicates two nodes of one version share an href.
	ErrDuplicateHref = errors.New("duplicate route href")
)
