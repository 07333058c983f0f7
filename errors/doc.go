// Package errors provides the structured error type used across rxkit.
// Failures that travel through a publisher chain, subscriber panics recovered
// by a Subject, and configuration problems are all reported as *AppError with
// a machine-readable code and optional details.
package errors
