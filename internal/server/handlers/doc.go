// Package handlers implements the docnav HTTP endpoints: documentation pages,
// the navigation API and the admin surface.
package handlers
