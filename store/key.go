package store

import (
	"strings"

	"github.com/pkg/errors"
)

// Key identifies one logical state entry. It is comparable and its String
// form is the partition key in the remote table and the key in the local store.
type Key struct {
	Type string
	ID   string
}

func NewKey(typ, id string) Key {
	return Key{Type: typ, ID: id}
}

func (k Key) String() string {
	return k.Type + " " + k.ID
}

// Validate rejects a Type holding a space. The canonical form splits at the
// first space, so such a key would share its slot with another one.
func (k Key) Validate() error {
	if strings.Contains(k.Type, " ") {
		return errors.Wrapf(ErrInvalidKey, "type %q contains a space", k.Type)
	}
	return nil
}

func validateKeys(keys []Key) error {
	for _, key := range keys {
		if err := key.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func validateEntries(entries []RawEntry) error {
	for _, entry := range entries {
		if err := entry.Key.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Compare orders keys by type, then id.
func (k Key) Compare(other Key) int {
	if c := strings.Compare(k.Type, other.Type); c != 0 {
		return c
	}
	return strings.Compare(k.ID, other.ID)
}

// uniqueKeys drops repeated keys, keeping the first occurrence.
func uniqueKeys(keys []Key) []Key {
	seen := make(map[Key]struct{}, len(keys))
	unique := make([]Key, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	return unique
}
