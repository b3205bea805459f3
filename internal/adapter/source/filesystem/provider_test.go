package filesystem

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/logger"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nnot-really-a-png")

// writeFile creates a file below dir, creating parent folders.
func writeFile(t *testing.T, dir, rel string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// id3Frame encodes a single ID3v2.3 frame.
func id3Frame(id string, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(id)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(payload)))
	buf.Write([]byte{0, 0})
	buf.Write(payload)
	return buf.Bytes()
}

// id3Tag builds an MP3 prefix carrying artist, album and optional cover art.
func id3Tag(artist, album string, art []byte) []byte {
	var frames bytes.Buffer
	frames.Write(id3Frame("TPE1", append([]byte{0}, artist...)))
	frames.Write(id3Frame("TALB", append([]byte{0}, album...)))
	if art != nil {
		var apic bytes.Buffer
		apic.WriteByte(0)
		apic.WriteString("image/png")
		apic.WriteByte(0)
		apic.WriteByte(3) // front cover
		apic.WriteByte(0) // empty description
		apic.Write(art)
		frames.Write(id3Frame("APIC", apic.Bytes()))
	}

	size := frames.Len()
	header := []byte{
		'I', 'D', '3', 3, 0, 0,
		byte(size>>21) & 0x7f, byte(size>>14) & 0x7f, byte(size>>7) & 0x7f, byte(size) & 0x7f,
	}

	out := append(header, frames.Bytes()...)
	// A little audio-ish payload after the tag
	return append(out, make([]byte, 64)...)
}

func newTestProvider(root string) *Provider {
	return New(root, logger.NewTestLogger())
}

func TestProvider_ScansSortedRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.png", pngBytes)
	writeFile(t, dir, "a.JPG", pngBytes)
	writeFile(t, dir, "nested/c.gif", []byte("GIF89a"))
	writeFile(t, dir, "nested/deeper/d.svg", []byte("<svg/>"))
	writeFile(t, dir, "notes.txt", []byte("ignored"))
	writeFile(t, dir, ".hidden.png", pngBytes)
	writeFile(t, dir, ".cache/e.png", pngBytes)

	p := newTestProvider(dir)
	slides, err := p.Slides(context.Background())
	require.NoError(t, err)

	ids := make([]string, len(slides))
	for i, s := range slides {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"a.JPG", "b.png", "nested/c.gif", "nested/deeper/d.svg"}, ids)

	assert.Equal(t, domain.SlideImage, slides[0].Kind)
	assert.Equal(t, "a", slides[0].Title)
	assert.Equal(t, filepath.Join(dir, "a.JPG"), slides[0].Path)
	assert.Equal(t, domain.SlideAnimation, slides[2].Kind)
	assert.Equal(t, filepath.Base(dir), p.Name())
}

func TestProvider_CoverArt(t *testing.T) {
	dir := t.TempDir()
	art := []byte("cover-bytes")
	writeFile(t, dir, "song.mp3", id3Tag("Daft Punk", "Discovery", art))
	writeFile(t, dir, "no-art.mp3", id3Tag("Someone", "Something", nil))
	writeFile(t, dir, "garbage.flac", []byte("definitely not flac"))

	slides, err := newTestProvider(dir).Slides(context.Background())
	require.NoError(t, err)
	require.Len(t, slides, 1)

	slide := slides[0]
	assert.Equal(t, "song.mp3", slide.ID)
	assert.Equal(t, "Daft Punk – Discovery", slide.Title)
	assert.Equal(t, "song.mp3", slide.Caption)
	assert.Equal(t, domain.SlideImage, slide.Kind)
	assert.Equal(t, art, slide.Data)
	assert.Equal(t, "image/png", slide.MIMEType)
}

func TestProvider_EmptyFolder(t *testing.T) {
	slides, err := newTestProvider(t.TempDir()).Slides(context.Background())
	require.NoError(t, err)
	assert.Empty(t, slides)
}

func TestProvider_MissingFolder(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := newTestProvider(missing).Slides(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)

	var srcErr *domain.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "scan", srcErr.Op)
	assert.Equal(t, missing, srcErr.Path)
}

func TestProvider_FileIsNotAFolder(t *testing.T) {
	path := writeFile(t, t.TempDir(), "single.png", pngBytes)

	_, err := newTestProvider(path).Slides(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnsupportedSource)
}

func TestProvider_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png", pngBytes)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestProvider(dir).Slides(ctx)
	assert.ErrorIs(t, err, domain.ErrScanCancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSupportedFormats(t *testing.T) {
	assert.True(t, IsSupported("x.PNG"))
	assert.True(t, IsSupported("x.flac"))
	assert.False(t, IsSupported("x.txt"))

	kind, ok := KindOf("anim.gif")
	assert.True(t, ok)
	assert.Equal(t, domain.SlideAnimation, kind)

	_, ok = KindOf("song.mp3")
	assert.False(t, ok)
	assert.True(t, IsAudio("song.MP3"))

	formats := SupportedFormats()
	assert.Contains(t, formats, ".jpeg")
	assert.Contains(t, formats, ".ogg")
	assert.IsIncreasing(t, formats)
}

func TestAlbumTitle(t *testing.T) {
	assert.Equal(t, "A – B", albumTitle(" A ", "B"))
	assert.Equal(t, "A", albumTitle("A", ""))
	assert.Equal(t, "B", albumTitle("", "B"))
	assert.Equal(t, "", albumTitle("", ""))
}
