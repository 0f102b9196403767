//go:build integration

package testutil

import (
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// newMigrator builds a migrator for the throwaway test database. The blank
// imports register the postgres target and the file:// source the market
// schema migrations load from; keeping them here keeps setup.go free of
// driver side effects.
func newMigrator(sourceURL, databaseURL string) (*migrate.Migrate, error) {
	return migrate.New(sourceURL, databaseURL)
}
