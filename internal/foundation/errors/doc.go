// Package errors provides classified error primitives shared by docnav packages.
//
// A ClassifiedError carries a category, a severity, a retry hint and a small
// structured context. Errors are created through the fluent ErrorBuilder and
// presented by the HTTP and CLI adapters:
//
//	err := errors.NewError(errors.CategoryRegistry, "registry load failed").
//		WithCause(ioErr).
//		WithContext("path", path).
//		Build()
//
// Navigation reads never produce errors; classification matters for loading,
// generation, configuration and request validation only.
package errors
