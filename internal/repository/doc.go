// Package repository guards writing commands with a git pre-flight check.
//
// Generation and migration overwrite files in the project directory. Running
// them on a clean working tree means every change they make shows up in
// `git diff` and can be reverted with git. CheckClean enforces that:
//
//	if err := repository.CheckClean(root, logger); err != nil {
//	    return err // errors.Is(err, repository.ErrDirtyWorktree)
//	}
//
// Directories that are not inside a git repository pass the check.
package repository
