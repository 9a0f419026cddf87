package repository

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	perrors "github.com/pkg/errors"
)

// ErrRefNotFound is returned when a ref names no branch or tag.
var ErrRefNotFound = errors.New("ref not found")

const (
	branchPrefix = "refs/heads/"
	tagPrefix    = "refs/tags/"
)

// Commit is a ref resolved to a concrete commit.
type Commit struct {
	SHA string
	Ref string
	Tag bool
}

// Resolver resolves refs against projects' git repositories.
type Resolver struct {
	root string
}

// NewResolver returns a Resolver. Relative repository paths are
// interpreted under root.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Resolve maps ref onto a commit of project's repository. Fully
// qualified refs select the branch or tag namespace; short names
// are tried as a branch first, then as a tag.
func (r *Resolver) Resolve(ctx context.Context, project *models.Project, ref string) (*Commit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ref = strings.TrimSpace(ref)
	if project == nil || project.RepositoryPath == "" || ref == "" {
		return nil, ErrRefNotFound
	}

	repo, err := git.PlainOpen(r.path(project.RepositoryPath))
	if err != nil {
		return nil, perrors.Wrapf(err, "failed to open repository for project %v", project.ID)
	}

	switch {
	case strings.HasPrefix(ref, branchPrefix):
		return resolve(repo, strings.TrimPrefix(ref, branchPrefix), false)
	case strings.HasPrefix(ref, tagPrefix):
		return resolve(repo, strings.TrimPrefix(ref, tagPrefix), true)
	}

	commit, err := resolve(repo, ref, false)
	if errors.Is(err, ErrRefNotFound) {
		return resolve(repo, ref, true)
	}

	return commit, err
}

func (r *Resolver) path(repoPath string) string {
	if filepath.IsAbs(repoPath) || r.root == "" {
		return repoPath
	}
	return filepath.Join(r.root, repoPath)
}

func resolve(repo *git.Repository, name string, tag bool) (*Commit, error) {
	refName := plumbing.NewBranchReferenceName(name)
	if tag {
		refName = plumbing.NewTagReferenceName(name)
	}

	ref, err := repo.Reference(refName, true)
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return nil, ErrRefNotFound
	case err != nil:
		return nil, perrors.Wrapf(err, "failed to read reference %v", refName)
	}

	hash, err := peel(repo, ref.Hash())
	if err != nil {
		return nil, err
	}

	return &Commit{SHA: hash.String(), Ref: name, Tag: tag}, nil
}

// peel follows annotated tags down to the commit they point at.
func peel(repo *git.Repository, hash plumbing.Hash) (plumbing.Hash, error) {
	if tag, err := repo.TagObject(hash); err == nil {
		commit, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, ErrRefNotFound
		}
		return commit.Hash, nil
	}

	commit, err := repo.CommitObject(hash)
	if err != nil {
		return plumbing.ZeroHash, ErrRefNotFound
	}

	return commit.Hash, nil
}
