// Package services defines the business logic for users, audio files, and
// image-to-video generation. This file centralizes the service-level error
// values so that callers can branch on them with errors.Is.
//
// Each value is one kind of failure. Details are attached by wrapping
// (fmt.Errorf("%w: ...", ErrX)); translation into HTTP status codes happens
// in the handler layer.
package services

import "errors"

var (
	// ErrValidation is returned for bad input detected before any remote call
	// or write: missing fields, wrong extension, unsupported image type.
	ErrValidation = errors.New("validation failed")

	// ErrPayloadTooLarge is returned when the encoded thumbnail exceeds the
	// provider's prompt-image ceiling.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrProvider is returned when the remote provider cannot be reached or
	// rejects a submit or poll call.
	ErrProvider = errors.New("provider error")

	// ErrGenerationFailed is returned when the provider reports the job FAILED.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrTimeout is returned when the poll budget runs out while the job is
	// still pending.
	ErrTimeout = errors.New("generation timed out")

	// ErrCanceled is returned when the caller goes away while polling.
	ErrCanceled = errors.New("request canceled")

	// ErrNotFound is returned for unknown task ids or filenames.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique field (username, email, filename)
	// is already taken.
	ErrConflict = errors.New("already exists")

	// ErrBusy is returned when every generation worker slot is in use.
	ErrBusy = errors.New("too many generation jobs in flight")

	// ErrPersistence wraps storage failures.
	ErrPersistence = errors.New("persistence error")

	// ErrInternal wraps unexpected failures that are neither bad input nor
	// storage, such as an image that decodes but cannot be re-encoded.
	ErrInternal = errors.New("internal error")
)
