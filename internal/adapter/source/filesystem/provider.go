// Package filesystem provides a SequenceProvider that scans a folder for pictures.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhowden/tag"

	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/ports"
)

// kinds maps supported file extensions to the slide kind they produce.
var kinds = map[string]domain.SlideKind{
	".png":  domain.SlideImage,
	".jpg":  domain.SlideImage,
	".jpeg": domain.SlideImage,
	".bmp":  domain.SlideImage,
	".svg":  domain.SlideImage,
	".gif":  domain.SlideAnimation,
}

// audioExts lists audio formats whose embedded cover art becomes a slide.
var audioExts = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
}

// Provider scans a folder recursively. Slides are ordered by relative path.
//
// Thread-safety: Slides may be called concurrently; each call scans again.
type Provider struct {
	root   string
	logger *slog.Logger
}

// New creates a provider for the folder at root.
func New(root string, logger *slog.Logger) *Provider {
	return &Provider{
		root:   filepath.Clean(root),
		logger: logger.With(slog.String("component", "filesystem_source")),
	}
}

// Name returns the folder name.
func (p *Provider) Name() string {
	return filepath.Base(p.root)
}

// Root returns the scanned folder.
func (p *Provider) Root() string {
	return p.root
}

// KindOf reports the slide kind for a picture path.
// The second result is false for unsupported files.
func KindOf(path string) (domain.SlideKind, bool) {
	kind, ok := kinds[strings.ToLower(filepath.Ext(path))]
	return kind, ok
}

// IsAudio reports whether path is an audio file that may carry cover art.
func IsAudio(path string) bool {
	return audioExts[strings.ToLower(filepath.Ext(path))]
}

// IsSupported reports whether path can contribute a slide.
func IsSupported(path string) bool {
	_, ok := KindOf(path)
	return ok || IsAudio(path)
}

// SupportedFormats returns the supported extensions in sorted order.
func SupportedFormats() []string {
	formats := make([]string, 0, len(kinds)+len(audioExts))
	for ext := range kinds {
		formats = append(formats, ext)
	}
	for ext := range audioExts {
		formats = append(formats, ext)
	}
	sort.Strings(formats)
	return formats
}

// Slides scans the folder and returns one slide per picture, animation and
// audio file with embedded artwork. Unreadable entries are skipped.
func (p *Provider) Slides(ctx context.Context) ([]domain.Slide, error) {
	info, err := os.Stat(p.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewSourceError("scan", p.root, domain.ErrSourceNotFound)
		}
		return nil, domain.NewSourceError("scan", p.root, err)
	}
	if !info.IsDir() {
		return nil, domain.NewSourceError("scan", p.root, domain.ErrUnsupportedSource)
	}

	files, err := p.collectFiles(ctx)
	if err != nil {
		return nil, err
	}

	slides := make([]domain.Slide, 0, len(files))
	for _, path := range files {
		// Check for cancellation
		select {
		case <-ctx.Done():
			return nil, domain.NewSourceError("scan", p.root, fmt.Errorf("%w: %w", domain.ErrScanCancelled, ctx.Err()))
		default:
		}

		slide, ok := p.slideFor(path)
		if ok {
			slides = append(slides, slide)
		}
	}

	p.logger.Debug("folder scanned",
		slog.String("root", p.root),
		slog.Int("files", len(files)),
		slog.Int("slides", len(slides)))

	return slides, nil
}

// collectFiles walks the folder and returns every supported file, sorted.
func (p *Provider) collectFiles(ctx context.Context) ([]string, error) {
	files := make([]string, 0)

	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		// Check for cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			// Skip files/folders we can't access
			p.logger.Debug("skipping unreadable entry", slog.String("path", path), slog.Any("error", err))
			if d != nil && d.IsDir() && path != p.root {
				return fs.SkipDir
			}
			return nil
		}

		// Hidden files and folders are not part of the show
		if path != p.root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if IsSupported(path) {
			files = append(files, path)
		}
		return nil
	})

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, domain.NewSourceError("scan", p.root, fmt.Errorf("%w: %w", domain.ErrScanCancelled, err))
	}
	if err != nil {
		return nil, domain.NewSourceError("scan", p.root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return p.relative(files[i]) < p.relative(files[j])
	})
	return files, nil
}

// slideFor builds the slide for one file.
func (p *Provider) slideFor(path string) (domain.Slide, bool) {
	slide := domain.Slide{
		ID:    p.relative(path),
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:  path,
	}

	if kind, ok := KindOf(path); ok {
		slide.Kind = kind
		return slide, true
	}

	art, title, err := coverArt(path)
	if err != nil {
		p.logger.Debug("no cover art", slog.String("path", path), slog.Any("error", err))
		return domain.Slide{}, false
	}

	slide.Kind = domain.SlideImage
	slide.Data = art.Data
	slide.MIMEType = art.MIMEType
	slide.Caption = filepath.Base(path)
	if title != "" {
		slide.Title = title
	}
	return slide, true
}

// relative returns the slash separated path below root, used as slide ID.
func (p *Provider) relative(path string) string {
	rel, err := filepath.Rel(p.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// errNoArtwork is returned for audio files without an embedded picture.
var errNoArtwork = errors.New("no embedded artwork")

// coverArt extracts the embedded picture of an audio file and an
// "Artist – Album" title built from its tags.
func coverArt(path string) (*tag.Picture, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	// Use dhowden/tag library to extract metadata
	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return nil, "", err
	}

	picture := metadata.Picture()
	if picture == nil || len(picture.Data) == 0 {
		return nil, "", errNoArtwork
	}

	return picture, albumTitle(metadata.Artist(), metadata.Album()), nil
}

// albumTitle joins artist and album, skipping whichever is blank.
func albumTitle(artist, album string) string {
	artist = strings.TrimSpace(artist)
	album = strings.TrimSpace(album)

	switch {
	case artist != "" && album != "":
		return artist + " – " + album
	case artist != "":
		return artist
	default:
		return album
	}
}

var _ ports.SequenceProvider = (*Provider)(nil)
