// Package migrations embeds the versioned schema for each supported driver.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// For returns the migration files of a driver ("sqlite" or "postgres")
func For(driver string) (fs.FS, error) {
	sub, err := fs.Sub(files, driver)
	if err != nil {
		return nil, fmt.Errorf("no migrations for driver %q: %w", driver, err)
	}
	return sub, nil
}
