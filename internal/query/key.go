package query

import (
	"net/url"
	"strconv"
	"strings"
)

// NotesNamespace is the key family shared by every notes listing
const NotesNamespace = "notes"

// Key identifies a cached result set. Two keys are equal iff every component is.
type Key struct {
	Namespace string
	Search    string
	Page      int
}

// NotesKey builds the key for one page of a notes search
func NotesKey(search string, page int) Key {
	return Key{Namespace: NotesNamespace, Search: search, Page: page}
}

// Parts returns the components in hierarchical order: namespace, search, page
func (k Key) Parts() []string {
	return []string{k.Namespace, k.Search, strconv.Itoa(k.Page)}
}

// HasPrefix reports whether the leading components of k equal prefix.
// An empty prefix matches every key.
func (k Key) HasPrefix(prefix ...string) bool {
	parts := k.Parts()
	if len(prefix) > len(parts) {
		return false
	}
	for i, p := range prefix {
		if parts[i] != p {
			return false
		}
	}
	return true
}

// String renders the key as namespace/search/page with the search escaped
func (k Key) String() string {
	return strings.Join([]string{k.Namespace, url.PathEscape(k.Search), strconv.Itoa(k.Page)}, "/")
}
