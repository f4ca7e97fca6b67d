package data

import (
	"embed"
)

//go:embed templates/*.json
var templatesFS embed.FS

//go:embed initdb/mariadb/002-ddl-tables.sql
var InitdbMariaDBTables string

//go:embed initdb/mariadb/003-ddl-privileges.sql
var InitdbMariaDBPrivileges string

// emptyTemplate is the seed for page types without a bundled template.
const emptyTemplate = `{"slots":{}}`

// DefaultTemplate returns the built-in slot tree for a page type. Unknown page
// types get an empty tree so the editor always has a draft to start from.
func DefaultTemplate(pageType string) []byte {
	b, err := templatesFS.ReadFile("templates/" + pageType + ".json")
	if err != nil {
		return []byte(emptyTemplate)
	}
	return b
}

// HasTemplate reports whether a bundled template exists for pageType.
func HasTemplate(pageType string) bool {
	_, err := templatesFS.ReadFile("templates/" + pageType + ".json")
	return err == nil
}
