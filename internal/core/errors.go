package core

import "errors"

var (
	// ErrCanonicalDirMissing is returned by generation when there is no
	// canonical directory to read.
	ErrCanonicalDirMissing = errors.New("canonical directory not found")

	// ErrCanonicalDirExists is returned by a plain migration when the
	// canonical directory is already present.
	ErrCanonicalDirExists = errors.New("canonical directory already exists")

	// ErrNothingToMigrate is returned by a plain migration when no provider
	// files were found.
	ErrNothingToMigrate = errors.New("no provider files found to migrate")
)
