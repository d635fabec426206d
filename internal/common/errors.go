// Package common defines the sentinel errors shared by every layer of the
// sbxcloud deploy client. Callers should use errors.Is to match these values;
// lower layers wrap them with fmt.Errorf("...: %w", ...) to add context.
package common

import "errors"

var (
	// Input errors. The CLI reprints usage for these.
	ErrArgument = errors.New("invalid argument")

	// Terminal pipeline errors.
	ErrAuth           = errors.New("authentication failed")
	ErrDomainMismatch = errors.New("folder does not belong to the selected domain")
	ErrScan           = errors.New("local scan failed")
	ErrUserCancelled  = errors.New("deployment cancelled")

	// Remote call errors.
	ErrRemoteCall = errors.New("remote call failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")

	// Single-file failure, non-fatal to the batch.
	ErrUpload = errors.New("upload failed")
)
