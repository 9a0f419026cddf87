package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// InitRepo creates a git repository with a single commit on master
// and returns its directory along with the commit hash. Every extra
// branch name points at the same commit.
func InitRepo(tb testing.TB, branches ...string) (string, string) {
	tb.Helper()

	dir := tb.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		tb.Fatalf("init repo: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("relay\n"), 0o644); err != nil {
		tb.Fatalf("write file: %v", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		tb.Fatalf("worktree: %v", err)
	}
	if _, err = wt.Add("README.md"); err != nil {
		tb.Fatalf("add: %v", err)
	}

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		tb.Fatalf("commit: %v", err)
	}

	for _, branch := range branches {
		ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), hash)
		if err := repo.Storer.SetReference(ref); err != nil {
			tb.Fatalf("create branch %v: %v", branch, err)
		}
	}

	return dir, hash.String()
}

// CreateTag adds a lightweight tag pointing at HEAD.
func CreateTag(tb testing.TB, dir, name string) {
	tb.Helper()

	repo, err := git.PlainOpen(dir)
	if err != nil {
		tb.Fatalf("open repo: %v", err)
	}

	head, err := repo.Head()
	if err != nil {
		tb.Fatalf("head: %v", err)
	}

	if _, err := repo.CreateTag(name, head.Hash(), nil); err != nil {
		tb.Fatalf("create tag %v: %v", name, err)
	}
}
