package generator

import (
	"errors"
	"log/slog"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// sourceCommit returns the HEAD commit of the git work tree containing dir,
// or "" when dir is not tracked by git.
func sourceCommit(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if !errors.Is(err, git.ErrRepositoryNotExists) {
			slog.Debug("Content provenance unavailable", logfields.Path(dir), logfields.Error(err))
		}
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		slog.Debug("Content repository has no HEAD", logfields.Path(dir), logfields.Error(err))
		return ""
	}
	return head.Hash().String()
}
