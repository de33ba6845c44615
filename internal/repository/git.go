package repository

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"agentsync/internal/logging"

	"github.com/go-git/go-git/v6"
)

// ErrDirtyWorktree is returned when the working tree has uncommitted changes.
var ErrDirtyWorktree = errors.New("working tree has uncommitted changes")

// maxListedFiles bounds the file names included in ErrDirtyWorktree messages.
const maxListedFiles = 5

// CheckClean fails with ErrDirtyWorktree when path is inside a git
// repository whose working tree is not clean. Untracked files count as
// changes. A path outside any repository passes.
func CheckClean(path string, logger *logging.AppLogger) error {
	dirty, err := DirtyFiles(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			logger.Debug("Not a git repository, skipping clean check", "path", path)
			return nil
		}
		return err
	}
	if len(dirty) == 0 {
		logger.Debug("Working tree is clean", "path", path)
		return nil
	}

	listed := dirty
	if len(listed) > maxListedFiles {
		listed = listed[:maxListedFiles]
	}
	msg := strings.Join(listed, ", ")
	if extra := len(dirty) - len(listed); extra > 0 {
		msg += fmt.Sprintf(" and %d more", extra)
	}
	return fmt.Errorf("%w: %s (commit or stash them, or pass --skip-git-check)", ErrDirtyWorktree, msg)
}

// DirtyFiles lists the changed and untracked files of the repository
// containing path, sorted. It returns git.ErrRepositoryNotExists (wrapped)
// when path is not inside a repository.
//
// Implementation notes:
//   - git.PlainOpenWithOptions with DetectDotGit walks up to the enclosing repository
//   - worktree.Status(): map of file path to staging and worktree status codes
//   - status.IsClean(): true if no file has a status other than Unmodified
func DirtyFiles(path string) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get working tree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get repository status: %w", err)
	}
	if status.IsClean() {
		return nil, nil
	}

	files := make([]string, 0, len(status))
	for file, st := range status {
		if st.Staging == git.Unmodified && st.Worktree == git.Unmodified {
			continue
		}
		files = append(files, file)
	}
	slices.Sort(files)
	return files, nil
}
