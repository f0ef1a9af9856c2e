package service

import "github.com/mmcdole/notehub/internal/query"

// NotesFamily is the key prefix shared by every notes listing page. Any write
// invalidates the whole family.
var NotesFamily = []string{query.NotesNamespace}

// NotesPageKey returns the cache key for one page of a search
func NotesPageKey(search string, page int) query.Key {
	if page < 1 {
		page = 1
	}
	return query.NotesKey(search, page)
}
