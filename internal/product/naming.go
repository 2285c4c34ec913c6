package product

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayNameFromID derives a display name from a module identifier or file
// name: the extension is dropped, underscores become spaces and every word is
// title-cased.
func DisplayNameFromID(id string) string {
	base := strings.TrimSuffix(filepath.Base(id), filepath.Ext(id))
	return cases.Title(language.English).String(strings.ReplaceAll(base, "_", " "))
}
