package screens

import (
	"context"
	"downalert/internal/config"
	"downalert/internal/lib/sl"
	"downalert/internal/model"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/bimg"
)

// RenderFunc writes a screenshot of url to path.
type RenderFunc func(ctx context.Context, url, path string) error

type Renderer struct {
	render RenderFunc
	config config.ScreensConfig
}

func New(config config.ScreensConfig) *Renderer {
	r := &Renderer{config: config}
	r.render = r.wkhtmltoimage
	return r
}

func NewWithRenderFunc(render RenderFunc, config config.ScreensConfig) *Renderer {
	return &Renderer{
		render: render,
		config: config,
	}
}

// Capture renders every site into a temporary directory and hands each image
// to fn. Sites that fail to render are skipped. The directory is removed
// before Capture returns.
func (r *Renderer) Capture(
	ctx context.Context,
	sites []model.Site,
	fn func(site model.Site, path string) error,
) error {
	dir := filepath.Join(os.TempDir(), "downalert-screens-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create screens directory: %w", err)
	}
	defer os.RemoveAll(dir)

	for _, site := range sites {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, fmt.Sprintf("%d.jpg", site.Id))
		if err := r.render(ctx, site.Url, path); err != nil {
			slog.Warn("failed to render site", sl.Site(site), sl.Error(err))
			continue
		}
		if err := r.shrink(path); err != nil {
			slog.Warn("failed to process screenshot", sl.Site(site), sl.Error(err))
			continue
		}

		if err := fn(site, path); err != nil {
			return err
		}
		if err := os.Remove(path); err != nil {
			slog.Warn("failed to remove screenshot", slog.String("path", path), sl.Error(err))
		}
	}

	return nil
}

func (r *Renderer) wkhtmltoimage(ctx context.Context, url, path string) error {
	cmd := exec.CommandContext(ctx, r.config.Renderer, "--quiet", "--format", "jpg", url, path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", r.config.Renderer, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// shrink re-encodes the image as JPEG no wider than MaxWidth.
func (r *Renderer) shrink(path string) error {
	if r.config.MaxWidth <= 0 {
		return nil
	}

	buf, err := bimg.Read(path)
	if err != nil {
		return err
	}
	image := bimg.NewImage(buf)
	size, err := image.Size()
	if err != nil {
		return err
	}

	options := bimg.Options{Type: bimg.JPEG}
	if size.Width > r.config.MaxWidth {
		options.Width = r.config.MaxWidth
	}
	processed, err := image.Process(options)
	if err != nil {
		return err
	}
	return bimg.Write(path, processed)
}
