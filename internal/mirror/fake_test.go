package mirror

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/sbxcloud/internal/client/cloud"
	"github.com/dmitrijs2005/sbxcloud/internal/common"
)

// fakeCloud is an in-memory remote tree implementing cloud.Client.
type fakeCloud struct {
	mu      sync.Mutex
	nextKey int
	folders map[string]*cloud.RemoteFolder
	parents map[string]string

	// behaviour
	uploadDelay time.Duration
	failUpload  map[string]error // by base name
	failCreate  map[string]error // by folder name
	failList    map[string]error // by folder key

	// observations
	events      []string
	inFlight    int
	maxInFlight int
	creates     int
	uploads     int
	lists       int
}

func newFakeCloud() *fakeCloud {
	f := &fakeCloud{
		folders:    map[string]*cloud.RemoteFolder{},
		parents:    map[string]string{},
		failUpload: map[string]error{},
		failCreate: map[string]error{},
		failList:   map[string]error{},
	}
	f.folders["root"] = &cloud.RemoteFolder{Key: "root", Path: "/acme/site", KeyPath: cloud.KeyPath{"home", "root"}}
	return f
}

func (f *fakeCloud) addEntry(parentKey, name, itemType string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addEntryLocked(parentKey, name, itemType)
}

func (f *fakeCloud) addEntryLocked(parentKey, name, itemType string) string {
	f.nextKey++
	key := fmt.Sprintf("k%d", f.nextKey)
	parent := f.folders[parentKey]
	parent.Contents = append(parent.Contents, cloud.RemoteEntry{Name: name, ItemType: itemType, Key: key})
	if itemType == cloud.FolderItem {
		f.folders[key] = &cloud.RemoteFolder{Key: key, Path: parent.Path + "/" + name}
		f.parents[key] = parentKey
	}
	return key
}

// childFolder returns the key of the named subfolder of parentKey.
func (f *fakeCloud) childFolder(parentKey, name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.folders[parentKey].Contents {
		if e.IsFolder() && e.Name == name {
			return e.Key, true
		}
	}
	return "", false
}

func (f *fakeCloud) countFolders() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.folders)
}

func (f *fakeCloud) record(event string) {
	f.events = append(f.events, event)
}

func (f *fakeCloud) Login(context.Context, cloud.Credentials) (*cloud.Session, error) {
	return nil, errors.New("not used")
}

func (f *fakeCloud) ListFolder(_ context.Context, key string) (*cloud.RemoteFolder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	f.record("list:" + key)
	if err := f.failList[key]; err != nil {
		return nil, err
	}
	folder, ok := f.folders[key]
	if !ok {
		return nil, fmt.Errorf("%w: %w", common.ErrRemoteCall, common.ErrNotFound)
	}
	snapshot := *folder
	snapshot.Contents = append([]cloud.RemoteEntry(nil), folder.Contents...)
	return &snapshot, nil
}

func (f *fakeCloud) CreateFolder(_ context.Context, parentKey, name string) (*cloud.RemoteFolder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create:" + parentKey + "/" + name)
	if err := f.failCreate[name]; err != nil {
		return nil, err
	}
	f.creates++
	key := f.addEntryLocked(parentKey, name, cloud.FolderItem)
	return &cloud.RemoteFolder{Key: key, Path: f.folders[key].Path, Contents: []cloud.RemoteEntry{}}, nil
}

func (f *fakeCloud) UploadFile(ctx context.Context, folderKey, localPath string) (*cloud.UploadResult, error) {
	name := filepath.Base(localPath)

	f.mu.Lock()
	f.record("upload:" + folderKey + "/" + name)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	failErr := f.failUpload[name]
	f.mu.Unlock()

	if f.uploadDelay > 0 {
		select {
		case <-time.After(f.uploadDelay):
		case <-ctx.Done():
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	if failErr != nil {
		return nil, failErr
	}
	f.uploads++
	f.addEntryLocked(folderKey, name, "I")
	return &cloud.UploadResult{}, nil
}

func (f *fakeCloud) eventLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}
