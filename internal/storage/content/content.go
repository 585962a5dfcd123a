package content

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"github.com/jgivc/centuriae/internal/config"
	"github.com/jgivc/centuriae/internal/entity"
	"github.com/spf13/afero"
)

const (
	contentExt = ".md"
)

type Converter interface {
	Convert(src []byte) (string, entity.Metadata, error)
}

type RevisionService interface {
	LatestChange(ctx context.Context, path string) entity.Result[entity.Revision]
}

type contentStorage struct {
	fs        afero.Fs
	converter Converter
	revisions RevisionService
	cfg       *config.LoaderConfig
	log       *slog.Logger
}

func NewContentStorage(fs afero.Fs, converter Converter, revisions RevisionService, cfg *config.LoaderConfig, log *slog.Logger) *contentStorage {
	return &contentStorage{
		fs:        fs,
		converter: converter,
		revisions: revisions,
		cfg:       cfg,
		log:       log.With(slog.String("item", "ContentStorage")),
	}
}

type job struct {
	n    int
	path string
}

type result struct {
	n      int
	source *entity.Source
	err    error
}

// Scan loads every content file of the content dir. Files are enumerated by
// name and the result keeps that order regardless of worker scheduling.
func (s *contentStorage) Scan(ctx context.Context) ([]*entity.Source, error) {
	paths, err := s.list()
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		s.log.Warn("No content files found", slog.String("dir", s.cfg.ContentDir))

		return []*entity.Source{}, nil
	}

	in := make(chan job, len(paths))
	out := make(chan result, len(paths))

	for n, path := range paths {
		in <- job{n: n, path: path}
	}
	close(in)

	workers := min(s.cfg.Workers, len(paths))

	var wg sync.WaitGroup
	wg.Add(workers)
	for n := 0; n < workers; n++ {
		go s.worker(ctx, n, in, out, &wg)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	sources := make([]*entity.Source, len(paths))
	errs := make([]error, len(paths))
	for r := range out {
		sources[r.n], errs[r.n] = r.source, r.err
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return sources, nil
}

func (s *contentStorage) worker(ctx context.Context, n int, in chan job, out chan result, wg *sync.WaitGroup) {
	defer wg.Done()

	log := s.log.With(slog.Int("worker_id", n))
	log.Debug("Started")

	for j := range in {
		if ctx.Err() != nil {
			log.Info("Interrupted")

			return
		}

		source, err := s.load(ctx, j.path)
		out <- result{n: j.n, source: source, err: err}
	}

	log.Debug("Done")
}

func (s *contentStorage) load(ctx context.Context, path string) (*entity.Source, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read content file %s: %w", path, err)
	}

	body, meta, err := s.converter.Convert(data)
	if err != nil {
		return nil, fmt.Errorf("cannot convert content file %s: %w", path, err)
	}

	res := s.revisions.LatestChange(ctx, path)
	if res.Status == entity.StatusFatal {
		return nil, res.Err
	}

	if !res.Usable() {
		s.log.Info("Revision metadata unavailable", slog.String("path", path), slog.String("reason", string(res.Reason)))
	}

	return &entity.Source{
		Path:         path,
		Meta:         meta,
		BodyHTML:     body,
		LastRevision: res.Value,
	}, nil
}

func (s *contentStorage) list() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.cfg.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("cannot read content dir %s: %w", s.cfg.ContentDir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != contentExt {
			continue
		}

		paths = append(paths, filepath.Join(s.cfg.ContentDir, entry.Name()))
	}

	sort.Strings(paths)

	return paths, nil
}
