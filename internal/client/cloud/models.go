package cloud

import (
	"encoding/json"
	"slices"
	"strings"
)

// FolderItem is the item_type value the API uses for folders. Every other
// value denotes a file.
const FolderItem = "F"

// Credentials are exchanged once for a Session and never persisted.
type Credentials struct {
	Login    string
	Password []byte
}

// Domain is one tenant the user is a member of.
type Domain struct {
	ID          int    `json:"domain_id"`
	DisplayName string `json:"display_name"`
	Name        string `json:"domain"`
	HomeKey     string `json:"home_key"`
}

type User struct {
	MemberOf []Domain `json:"member_of"`
}

// Session is the result of a successful login. Token is attached to every
// subsequent call.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Domain returns the membership with the given id.
func (s *Session) Domain(id int) (*Domain, bool) {
	for i := range s.User.MemberOf {
		if s.User.MemberOf[i].ID == id {
			return &s.User.MemberOf[i], true
		}
	}
	return nil, false
}

// RemoteEntry is a child of a remote folder.
type RemoteEntry struct {
	Name     string `json:"name"`
	ItemType string `json:"item_type"`
	Key      string `json:"key"`
}

func (e RemoteEntry) IsFolder() bool {
	return e.ItemType == FolderItem
}

// KeyPath is the chain of folder keys from the domain home to a folder. The
// API has returned it both as a "/a/b" string and as an array of keys; both
// decode into the same elements.
type KeyPath []string

// ParseKeyPath splits a slash-separated key path into its elements.
func ParseKeyPath(s string) KeyPath {
	var k KeyPath
	for _, part := range strings.Split(s, "/") {
		if part != "" {
			k = append(k, part)
		}
	}
	return k
}

func (k *KeyPath) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*k = ParseKeyPath(s)
		return nil
	}
	var parts []string
	if err := json.Unmarshal(b, &parts); err != nil {
		return err
	}
	*k = KeyPath(parts)
	return nil
}

func (k KeyPath) String() string {
	return "/" + strings.Join(k, "/")
}

// Contains reports whether key is one of the path's elements. Only whole
// keys match.
func (k KeyPath) Contains(key string) bool {
	return key != "" && slices.Contains(k, key)
}

// RemoteFolder is a snapshot of a remote folder and its children.
type RemoteFolder struct {
	Key      string        `json:"key"`
	Path     string        `json:"path"`
	KeyPath  KeyPath       `json:"key_path"`
	Contents []RemoteEntry `json:"contents"`
}

// Partition indexes Contents by name into subfolders and files.
func (f *RemoteFolder) Partition() (folders, files map[string]RemoteEntry) {
	folders = make(map[string]RemoteEntry)
	files = make(map[string]RemoteEntry)
	for _, e := range f.Contents {
		if e.IsFolder() {
			folders[e.Name] = e
		} else {
			files[e.Name] = e
		}
	}
	return folders, files
}

// UploadResult carries whatever the server echoed back for an upload.
type UploadResult struct {
	Raw json.RawMessage
}
