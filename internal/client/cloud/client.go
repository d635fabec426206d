package cloud

import (
	"context"
)

// Client is the contract the deploy pipeline and the mirror orchestrator rely
// on. Each method is a single request/response exchange.
type Client interface {
	Login(ctx context.Context, creds Credentials) (*Session, error)
	ListFolder(ctx context.Context, key string) (*RemoteFolder, error)
	CreateFolder(ctx context.Context, parentKey, name string) (*RemoteFolder, error)
	UploadFile(ctx context.Context, folderKey, localPath string) (*UploadResult, error)
}
