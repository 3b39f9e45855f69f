// Package storage provides the asset store gateway: it moves locally spooled
// upload files into remote object storage and deletes remote assets during
// workflow compensation.
package storage

import "context"

// UploadResult identifies a stored remote asset. RemoteID is the storage key
// used for deletion; URL is what gets persisted on the identity record.
type UploadResult struct {
	RemoteID string
	URL      string
}

// Gateway is the remote media store contract. Upload consumes the local file
// at localPath: whatever the outcome, the local file is gone after the call.
// Delete is idempotent; deleting an unknown id is not an error.
type Gateway interface {
	Upload(ctx context.Context, localPath string) (*UploadResult, error)
	Delete(ctx context.Context, remoteID string) error
}
