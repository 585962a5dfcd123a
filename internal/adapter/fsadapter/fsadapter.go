package fsadapter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	PostsDir  = "posts"
	DiffsDir  = "diffs"
	AssetsDir = "assets"
	JSDir     = "js"

	noJekyllFileName = ".nojekyll"

	dirPerm  = 0o755
	filePerm = 0o644
)

var (
	stylesheets     = []string{"style.css", "diff.css"}
	imageExtensions = map[string]struct{}{
		".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".svg": {},
	}
)

type fsAdapter struct {
	fs        afero.Fs
	outputDir string
	log       *slog.Logger
}

func NewFSAdapter(fs afero.Fs, outputDir string, log *slog.Logger) *fsAdapter {
	return &fsAdapter{
		fs:        fs,
		outputDir: outputDir,
		log:       log.With(slog.String("item", "FSAdapter")),
	}
}

// Reset removes the output tree and recreates its skeleton.
func (a *fsAdapter) Reset() error {
	if err := a.fs.RemoveAll(a.outputDir); err != nil {
		return fmt.Errorf("cannot clear output dir %s: %w", a.outputDir, err)
	}

	for _, dir := range []string{PostsDir, DiffsDir} {
		if err := a.fs.MkdirAll(filepath.Join(a.outputDir, dir), dirPerm); err != nil {
			return fmt.Errorf("cannot create output dir %s: %w", dir, err)
		}
	}

	return a.WriteFile(noJekyllFileName, nil)
}

// WriteFile persists data at the output-relative path name. The content
// becomes visible at once through a rename of a fully written temp file.
func (a *fsAdapter) WriteFile(name string, data []byte) error {
	dst := filepath.Join(a.outputDir, name)
	dir := filepath.Dir(dst)

	if err := a.fs.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("cannot create dir %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(a.fs, dir, "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("cannot create temp file for %s: %w", name, err)
	}

	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		a.fs.Remove(tmpName)

		return fmt.Errorf("cannot write %s: %w", name, err)
	}

	if err := tmp.Close(); err != nil {
		a.fs.Remove(tmpName)

		return fmt.Errorf("cannot close %s: %w", name, err)
	}

	if err := a.fs.Chmod(tmpName, filePerm); err != nil {
		a.log.Debug("Cannot set file mode", slog.String("path", tmpName), slog.Any("error", err))
	}

	if err := a.fs.Rename(tmpName, dst); err != nil {
		a.fs.Remove(tmpName)

		return fmt.Errorf("cannot move %s into place: %w", name, err)
	}

	return nil
}

// StageAssets copies stylesheets, scripts, content assets and root content
// images into the output tree. Missing sources are skipped.
func (a *fsAdapter) StageAssets(cssDir, jsDir, contentDir string) error {
	for _, name := range stylesheets {
		if err := a.copyFile(filepath.Join(cssDir, name), name); err != nil {
			return err
		}
	}

	scripts, err := a.glob(jsDir, func(name string) bool { return filepath.Ext(name) == ".js" })
	if err != nil {
		return err
	}
	for _, name := range scripts {
		if err := a.copyFile(filepath.Join(jsDir, name), filepath.Join(JSDir, name)); err != nil {
			return err
		}
	}

	assets := filepath.Join(contentDir, AssetsDir)
	for _, dst := range []string{AssetsDir, filepath.Join(PostsDir, AssetsDir)} {
		if err := a.copyTree(assets, dst); err != nil {
			return err
		}
	}

	images, err := a.glob(contentDir, isImage)
	if err != nil {
		return err
	}
	for _, name := range images {
		for _, dst := range []string{name, filepath.Join(PostsDir, name)} {
			if err := a.copyFile(filepath.Join(contentDir, name), dst); err != nil {
				return err
			}
		}
	}

	return nil
}

func isImage(name string) bool {
	_, ok := imageExtensions[filepath.Ext(name)]

	return ok
}

// glob lists the names of regular files directly under dir accepted by match.
func (a *fsAdapter) glob(dir string, match func(string) bool) ([]string, error) {
	if !a.dirExists(dir) {
		return nil, nil
	}

	entries, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && match(entry.Name()) {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

func (a *fsAdapter) copyTree(src, dst string) error {
	if !a.dirExists(src) {
		return nil
	}

	return afero.Walk(a.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		return a.copyFile(path, filepath.Join(dst, rel))
	})
}

func (a *fsAdapter) copyFile(src, dst string) error {
	f, err := a.fs.Open(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			a.log.Debug("Skip missing asset", slog.String("path", src))

			return nil
		}

		return fmt.Errorf("cannot open asset %s: %w", src, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("cannot read asset %s: %w", src, err)
	}

	if err := a.WriteFile(dst, data); err != nil {
		return fmt.Errorf("cannot stage asset %s: %w", src, err)
	}

	a.log.Debug("Staged asset", slog.String("src", src), slog.String("dst", dst))

	return nil
}

func (a *fsAdapter) dirExists(path string) bool {
	if path == "" {
		return false
	}

	ok, err := afero.DirExists(a.fs, path)
	if err != nil {
		a.log.Debug("Cannot stat dir", slog.String("path", path), slog.Any("error", err))
	}

	return ok
}
