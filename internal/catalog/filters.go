package catalog

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// isCatalogEvent reports whether event touched the catalog file in a way
// that may have changed its content.
func isCatalogEvent(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
