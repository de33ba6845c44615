// Package fileops provides the small set of filesystem primitives shared by
// the generator and the migrator.
//
// # Atomic Operations
//
// Every generated file goes through AtomicWriteFile or AtomicCopy. Content is
// written to a sibling ".tmp" file, synced, then renamed over the destination:
//
//	err := fileops.AtomicWriteFile("AGENTS.md", []byte(instructions))
//	// AGENTS.md holds either the old content or the new content, never a mix
//
// # Path Checks
//
// ValidateRelativeDir guards directory names taken from configuration or
// flags. RegularFileExists and DirExists treat a missing path as "false"
// rather than an error, which is what source detection wants.
//
// # Identifiers
//
// SanitizeIdentifier turns free-form names (rule file names, descriptions)
// into identifiers that are safe for tool names.
package fileops
