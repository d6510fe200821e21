// pkg/source/fetch.go
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrFetch is wrapped by every source fetch failure
var ErrFetch = errors.New("source fetch failed")

// Config configures a GitFetcher
type Config struct {
	Shallow  bool      // Clone only the tagged commit
	Progress io.Writer // Clone progress output (optional)
	Debug    bool
	Logger   *log.Logger
}

// GitFetcher checks out a tag of a git repository
type GitFetcher struct {
	config *Config
	logger *log.Logger
}

// NewGitFetcher creates a GitFetcher. A nil config means a shallow clone.
func NewGitFetcher(cfg *Config) *GitFetcher {
	if cfg == nil {
		cfg = &Config{Shallow: true}
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "SOURCE", Level: log.DebugLevel})
		} else {
			logger = log.New(io.Discard)
		}
	}

	return &GitFetcher{config: cfg, logger: logger}
}

// Fetch makes dir a checkout of url at tag. An existing repository in dir
// is reused: the tag is fetched if it is missing and checked out again.
func (f *GitFetcher) Fetch(ctx context.Context, url, tag, dir string) error {
	tagRef := plumbing.NewTagReferenceName(tag)

	repo, err := git.PlainOpen(dir)
	switch {
	case err == nil:
		f.logger.Debug("Reusing existing checkout", "dir", dir)
		if err := f.fetchTag(ctx, repo, tagRef); err != nil {
			return fmt.Errorf("%w: fetching %s from %s: %v", ErrFetch, tag, url, err)
		}
	case errors.Is(err, git.ErrRepositoryNotExists):
		f.logger.Debug("Cloning", "url", url, "tag", tag, "dir", dir)
		opts := &git.CloneOptions{
			URL:           url,
			ReferenceName: tagRef,
			SingleBranch:  true,
			Tags:          git.NoTags,
			Progress:      f.config.Progress,
		}
		if f.config.Shallow {
			opts.Depth = 1
		}
		repo, err = git.PlainCloneContext(ctx, dir, false, opts)
		if err != nil {
			return fmt.Errorf("%w: git clone %s: %v", ErrFetch, url, err)
		}
	default:
		return fmt.Errorf("%w: opening %s: %v", ErrFetch, dir, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(tagRef.String()))
	if err != nil {
		return fmt.Errorf("%w: resolving %s: %v", ErrFetch, tag, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return fmt.Errorf("%w: git checkout %s: %v", ErrFetch, tag, err)
	}

	f.logger.Debug("  ✓ Checked out", "tag", tag, "commit", hash.String())
	return nil
}

func (f *GitFetcher) fetchTag(ctx context.Context, repo *git.Repository, tagRef plumbing.ReferenceName) error {
	if _, err := repo.Reference(tagRef, false); err == nil {
		return nil
	}

	opts := &git.FetchOptions{
		RemoteName: git.DefaultRemoteName,
		RefSpecs:   []config.RefSpec{config.RefSpec("+" + tagRef.String() + ":" + tagRef.String())},
		Tags:       git.NoTags,
		Progress:   f.config.Progress,
	}
	if f.config.Shallow {
		opts.Depth = 1
	}
	err := repo.FetchContext(ctx, opts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}
