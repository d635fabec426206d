// Package cloud is the Remote Folder Client for the sbxcloud REST API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering the
//     four calls a deployment needs: Login, ListFolder, CreateFolder and
//     UploadFile.
//  2. An HTTP implementation (see HTTPClient) that builds the requests,
//     attaches the bearer token obtained at login, decodes gzip-encoded JSON
//     responses and bounds every call with a per-request timeout.
//  3. The wire models: Session, Domain, RemoteFolder and RemoteEntry.
//
// # Error Handling
//
// Failures wrap the sentinels from internal/common so callers can match them
// with errors.Is: ErrAuth for a rejected login, ErrRemoteCall for any failing
// folder call (additionally ErrNotFound on 404 and ErrConflict on 409), and
// ErrUpload for a failed upload.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use once Login has returned; the token is
// read-only shared state afterwards. All operations accept a context.Context
// and honour cancellation.
package cloud
