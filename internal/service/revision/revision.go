package revision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jgivc/centuriae/internal/common"
	"github.com/jgivc/centuriae/internal/entity"
)

const (
	serviceName = "revision"
)

type VCS interface {
	LatestChange(ctx context.Context, path string) (*entity.Revision, error)
	Log(ctx context.Context, path string) ([]entity.LogEntry, error)
	ContentAt(ctx context.Context, identifier, path string) ([]byte, error)
}

type RevisionService struct {
	vcs VCS
	log *slog.Logger
}

func NewRevisionService(vcs VCS, log *slog.Logger) *RevisionService {
	return &RevisionService{
		vcs: vcs,
		log: log.With(slog.String("service", serviceName)),
	}
}

// LatestChange never fails on version-control errors: they degrade to the
// Draft or Error sentinel. Only a cancelled context is fatal.
func (s *RevisionService) LatestChange(ctx context.Context, path string) entity.Result[entity.Revision] {
	rev, err := s.vcs.LatestChange(ctx, path)
	switch {
	case err == nil:
		return entity.Ok(*rev)
	case ctx.Err() != nil:
		return entity.Fatal[entity.Revision](fmt.Errorf("cannot get latest change of %s: %w", path, ctx.Err()))
	case errors.Is(err, common.ErrNoHistory):
		s.log.Debug("No history", slog.String("path", path))

		return entity.Degraded(entity.DraftRevision, entity.ReasonNoHistory, err)
	default:
		s.log.Warn("Cannot get latest change", slog.String("path", path), slog.Any("error", err))

		return entity.Degraded(entity.ErrorRevision, entity.ReasonQueryFailed, err)
	}
}

// History reconstructs every logged snapshot of path, newest first. A
// revision whose content cannot be fetched is skipped; a failing log yields
// an empty history.
func (s *RevisionService) History(ctx context.Context, path string) (result entity.Result[[]entity.RevisionRecord]) {
	empty := []entity.RevisionRecord{}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Cannot reconstruct history", slog.String("path", path), slog.Any("panic", r))

			result = entity.Degraded(empty, entity.ReasonQueryFailed, fmt.Errorf("history of %s: %v", path, r))
		}
	}()

	entries, err := s.vcs.Log(ctx, path)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return entity.Fatal[[]entity.RevisionRecord](fmt.Errorf("cannot get history of %s: %w", path, ctx.Err()))
	case errors.Is(err, common.ErrNoHistory):
		return entity.Degraded(empty, entity.ReasonNoHistory, err)
	default:
		s.log.Error("Cannot get history", slog.String("path", path), slog.Any("error", err))

		return entity.Degraded(empty, entity.ReasonQueryFailed, err)
	}

	name := filepath.Base(path)
	records := make([]entity.RevisionRecord, 0, len(entries))

	for _, e := range entries {
		content, err := s.vcs.ContentAt(ctx, e.Identifier, path)
		if err != nil {
			if ctx.Err() != nil {
				return entity.Fatal[[]entity.RevisionRecord](fmt.Errorf("cannot get history of %s: %w", path, ctx.Err()))
			}

			s.log.Debug("Skip revision", slog.String("path", path), slog.String("revision", e.Identifier), slog.Any("error", err))

			continue
		}

		records = append(records, entity.RevisionRecord{
			Identifier: e.Identifier,
			Timestamp:  e.Timestamp,
			Subject:    e.Subject,
			Content:    string(content),
			SourceName: name,
		})
	}

	return entity.Ok(records)
}
