package gitadapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/jgivc/centuriae/internal/common"
	"github.com/jgivc/centuriae/internal/entity"
)

const (
	shortHashLength = 7
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05-07:00"
)

// gitAdapter serializes repository access: the object storage of a
// repository is not safe for concurrent use.
type gitAdapter struct {
	mu   sync.Mutex
	repo *git.Repository
	root string
	log  *slog.Logger
}

// NewGitAdapter opens the repository containing dir. When there is none,
// every query reports common.ErrNoHistory.
func NewGitAdapter(dir string, log *slog.Logger) (*gitAdapter, error) {
	log = log.With(slog.String("item", "GitAdapter"))

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			log.Warn("No repository found, revision metadata unavailable", slog.String("dir", dir))

			return &gitAdapter{log: log}, nil
		}

		return nil, fmt.Errorf("cannot open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("cannot get worktree: %w", err)
	}

	return &gitAdapter{
		repo: repo,
		root: wt.Filesystem.Root(),
		log:  log,
	}, nil
}

// LatestChange returns the most recent commit that changed path.
func (a *gitAdapter) LatestChange(ctx context.Context, path string) (*entity.Revision, error) {
	commits, err := a.history(ctx, path, 1)
	if err != nil {
		return nil, err
	}

	c := commits[0]

	return &entity.Revision{
		Author:     c.Author.Name,
		Date:       c.Author.When.Format(dateLayout),
		Identifier: shortHash(c.Hash),
	}, nil
}

// Log lists the commits that changed path, newest first, following renames.
func (a *gitAdapter) Log(ctx context.Context, path string) ([]entity.LogEntry, error) {
	commits, err := a.history(ctx, path, 0)
	if err != nil {
		return nil, err
	}

	entries := make([]entity.LogEntry, 0, len(commits))
	for _, c := range commits {
		entries = append(entries, entity.LogEntry{
			Identifier: shortHash(c.Hash),
			Timestamp:  c.Author.When.Format(timestampLayout),
			Subject:    subject(c.Message),
		})
	}

	return entries, nil
}

// history walks from HEAD in committer-time order and collects up to limit
// commits (all when limit is 0) that changed path. A commit whose version
// of path equals the one of a parent is not a change: only that parent is
// followed, so merges that took a branch version are left out.
func (a *gitAdapter) history(ctx context.Context, path string, limit int) ([]*object.Commit, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rel, err := a.relPath(path)
	if err != nil {
		return nil, err
	}

	head, err := a.repo.Head()
	if err != nil {
		return nil, a.mapError(err)
	}

	first, err := a.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("cannot get head commit: %w", err)
	}

	var (
		commits []*object.Commit
		current = rel
		queue   = commitQueue{}
		seen    = map[plumbing.Hash]struct{}{first.Hash: {}}
	)

	queue.push(first)

	for queue.len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c := queue.pop()

		changed, next, parents, err := inspect(ctx, c, current)
		if err != nil {
			return nil, fmt.Errorf("cannot walk history of %s: %w", rel, err)
		}

		if changed {
			commits = append(commits, c)
			if limit > 0 && len(commits) >= limit {
				break
			}
		}
		current = next

		for _, p := range parents {
			if _, ok := seen[p.Hash]; ok {
				continue
			}

			seen[p.Hash] = struct{}{}
			queue.push(p)
		}
	}

	if len(commits) == 0 {
		return nil, common.ErrNoHistory
	}

	return commits, nil
}

// ContentAt returns the bytes of path as committed in the commit named by identifier.
func (a *gitAdapter) ContentAt(ctx context.Context, identifier, path string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rel, err := a.relPath(path)
	if err != nil {
		return nil, err
	}

	hash, err := a.repo.ResolveRevision(plumbing.Revision(identifier))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve %s: %w", identifier, err)
	}

	commit, err := a.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("cannot get commit %s: %w", identifier, err)
	}

	file, err := commit.File(rel)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%s at %s: %w", rel, identifier, common.ErrRevisionUnavailable)
		}

		return nil, fmt.Errorf("cannot get %s at %s: %w", rel, identifier, err)
	}

	r, err := file.Reader()
	if err != nil {
		return nil, fmt.Errorf("cannot open %s at %s: %w", rel, identifier, err)
	}
	defer r.Close()

	return io.ReadAll(r)
}

func (a *gitAdapter) relPath(path string) (string, error) {
	if a.repo == nil {
		return "", common.ErrNoHistory
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	rel, err := filepath.Rel(a.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside of repository: %w", path, common.ErrNoHistory)
	}

	return filepath.ToSlash(rel), nil
}

func (a *gitAdapter) mapError(err error) error {
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return common.ErrNoHistory
	}

	return err
}

// inspect reports whether c changed path and which parents the walk
// continues with. When c renamed path, next holds the old name.
func inspect(ctx context.Context, c *object.Commit, path string) (bool, string, []*object.Commit, error) {
	blob, err := blobHash(c, path)
	if err != nil {
		return false, "", nil, err
	}

	parents := make([]*object.Commit, 0, c.NumParents())
	err = c.Parents().ForEach(func(p *object.Commit) error {
		parents = append(parents, p)

		return nil
	})
	if err != nil {
		return false, "", nil, err
	}

	for _, p := range parents {
		pblob, err := blobHash(p, path)
		if err != nil {
			return false, "", nil, err
		}

		if pblob == blob {
			return false, path, []*object.Commit{p}, nil
		}
	}

	if blob.IsZero() {
		// Deleted here.
		return false, path, parents, nil
	}

	previous, err := renamedFrom(ctx, c, parents, path)
	if err != nil {
		return false, "", nil, err
	}

	return true, previous, parents, nil
}

// renamedFrom returns the name path had in the first parent of c, or path
// itself when c did not rename it.
func renamedFrom(ctx context.Context, c *object.Commit, parents []*object.Commit, path string) (string, error) {
	if len(parents) == 0 {
		return path, nil
	}

	if pblob, err := blobHash(parents[0], path); err != nil || !pblob.IsZero() {
		return path, err
	}

	tree, err := c.Tree()
	if err != nil {
		return "", err
	}

	parentTree, err := parents[0].Tree()
	if err != nil {
		return "", err
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return "", err
	}

	for _, change := range changes {
		if change.To.Name == path && change.From.Name != "" && change.From.Name != path {
			return change.From.Name, nil
		}
	}

	return path, nil
}

// blobHash returns the blob hash of path in c, zero when absent.
func blobHash(c *object.Commit, path string) (plumbing.Hash, error) {
	tree, err := c.Tree()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	entry, err := tree.FindEntry(path)
	switch {
	case errors.Is(err, object.ErrEntryNotFound), errors.Is(err, object.ErrDirectoryNotFound):
		return plumbing.ZeroHash, nil
	case err != nil:
		return plumbing.ZeroHash, err
	case !entry.Mode.IsFile():
		return plumbing.ZeroHash, nil
	}

	return entry.Hash, nil
}

// commitQueue keeps commits ordered by committer time, newest last.
type commitQueue struct {
	commits []*object.Commit
}

func (q *commitQueue) len() int {
	return len(q.commits)
}

func (q *commitQueue) push(c *object.Commit) {
	i := sort.Search(len(q.commits), func(i int) bool {
		return q.commits[i].Committer.When.After(c.Committer.When)
	})

	q.commits = append(q.commits, nil)
	copy(q.commits[i+1:], q.commits[i:])
	q.commits[i] = c
}

func (q *commitQueue) pop() *object.Commit {
	c := q.commits[len(q.commits)-1]
	q.commits = q.commits[:len(q.commits)-1]

	return c
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:shortHashLength]
}

func subject(message string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(message), "\n")

	return strings.TrimSpace(line)
}
