// Package errors provides the structured error model for the adapter
// framework. Every expected call failure (timeout, open circuit, rate
// limit, invalid response) is represented as an *AppError with a
// machine-readable code and a retryable flag; the adapter returns these
// inside result values rather than raising them, so a failing dependency
// can never throw past the call boundary.
package errors
