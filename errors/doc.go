// Package errors provides structured error types for the metaform library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: field path, the offending
// Go type name, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindKeyType).
//		Path("order", "lines").
//		GoType("[]string").
//		Detail("map key must be a stringifiable scalar").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotObject(errors.PhaseFold, "int")
//	err := errors.NonFinite(errors.PhaseEncode, path, math.NaN())
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
