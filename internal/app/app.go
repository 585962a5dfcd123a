package app

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jgivc/centuriae/internal/adapter/fsadapter"
	"github.com/jgivc/centuriae/internal/adapter/gitadapter"
	"github.com/jgivc/centuriae/internal/adapter/mdadapter"
	"github.com/jgivc/centuriae/internal/adapter/tpladapter"
	"github.com/jgivc/centuriae/internal/common"
	"github.com/jgivc/centuriae/internal/config"
	"github.com/jgivc/centuriae/internal/entity"
	"github.com/jgivc/centuriae/internal/service/index"
	"github.com/jgivc/centuriae/internal/service/nav"
	"github.com/jgivc/centuriae/internal/service/order"
	"github.com/jgivc/centuriae/internal/service/render"
	"github.com/jgivc/centuriae/internal/service/revision"
	"github.com/jgivc/centuriae/internal/storage/content"
	"github.com/spf13/afero"
)

// BuildInfo describes a finished build.
type BuildInfo struct {
	ID      string
	Entries []*entity.Entry
}

type App struct {
	cfg     *config.Config
	fs      afero.Fs
	log     *slog.Logger
	running atomic.Bool
}

func New(cfg *config.Config, fs afero.Fs, log *slog.Logger) *App {
	return &App{
		cfg: cfg,
		fs:  fs,
		log: log,
	}
}

// NewLogger builds the text logger for the configured level.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lo := &slog.HandlerOptions{}
	switch level {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		panic("unknown log level")
	}

	return slog.New(slog.NewTextHandler(w, lo))
}

// Build regenerates the whole output tree. The corpus is resolved and
// validated before the output dir is touched.
func (a *App) Build(ctx context.Context) (*BuildInfo, error) {
	if !a.running.CompareAndSwap(false, true) {
		return nil, common.ErrBuildHasAlreadyStarted
	}
	defer a.running.Store(false)

	id := uuid.NewString()
	log := a.log.With(slog.String("build_id", id))

	log.Info("Start build", slog.String("content_dir", a.cfg.ContentDir), slog.String("output_dir", a.cfg.OutputDir))

	vcs, err := gitadapter.NewGitAdapter(a.cfg.RepoDir, log)
	if err != nil {
		return nil, fmt.Errorf("cannot open version control: %w", err)
	}

	md := mdadapter.NewMDAdapter()
	revisions := revision.NewRevisionService(vcs, log)
	store := content.NewContentStorage(a.fs, md, revisions, &a.cfg.LoaderConfig, log)

	sources, err := store.Scan(ctx)
	if err != nil {
		log.Error("Cannot scan", slog.Any("error", err))

		return nil, fmt.Errorf("cannot scan content: %w", err)
	}

	corpus, err := order.NewOrderService(log).Resolve(sources)
	if err != nil {
		log.Error("Cannot resolve corpus", slog.Any("error", err))

		return nil, err
	}

	tpl, err := tpladapter.NewTplAdapter(a.fs, a.cfg.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("cannot load templates: %w", err)
	}

	footer, err := md.ConvertText(a.cfg.FooterText)
	if err != nil {
		return nil, fmt.Errorf("cannot convert footer text: %w", err)
	}

	site := &tpladapter.Site{
		Title:      a.cfg.SiteTitle,
		FooterText: template.HTML(footer),
	}

	out := fsadapter.NewFSAdapter(a.fs, a.cfg.OutputDir, log)
	if err := out.Reset(); err != nil {
		return nil, fmt.Errorf("cannot reset output: %w", err)
	}

	if err := out.StageAssets(a.cfg.CSSDir, a.cfg.JSDir, a.cfg.ContentDir); err != nil {
		return nil, fmt.Errorf("cannot stage assets: %w", err)
	}

	renderer := render.NewRenderService(tpl, out, revisions, log)
	for _, l := range nav.Link(corpus) {
		if err := renderer.Render(ctx, l, site); err != nil {
			log.Error("Cannot render entry", slog.String("slug", l.Slug), slog.Any("error", err))

			return nil, fmt.Errorf("cannot render entry %s: %w", l.Slug, err)
		}
	}

	if err := index.NewIndexService(tpl, out, log).Compose(corpus, site); err != nil {
		return nil, err
	}

	log.Info("Build done", slog.Int("count", corpus.Len()))

	return &BuildInfo{ID: id, Entries: corpus.Entries()}, nil
}
