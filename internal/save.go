package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// partialPrefix marks in-flight downloads so interrupted ones can be purged
const partialPrefix = ".tldwc-"

var extensionsByType = map[string]string{
	"video/mp4":        ".mp4",
	"video/quicktime":  ".mov",
	"video/webm":       ".webm",
	"video/x-matroska": ".mkv",
}

// Saver turns a downloaded payload into a file in the download directory
type Saver struct {
	dir              string
	defaultExtension string
}

// NewSaver creates a saver writing into dir
func NewSaver(dir, defaultExtension string) *Saver {
	if defaultExtension == "" {
		defaultExtension = ".mp4"
	}
	if !strings.HasPrefix(defaultExtension, ".") {
		defaultExtension = "." + defaultExtension
	}
	return &Saver{dir: dir, defaultExtension: defaultExtension}
}

// Dir returns the directory files are saved into
func (s *Saver) Dir() string {
	return s.dir
}

// ExtensionFor returns the file extension for a negotiated media type
func (s *Saver) ExtensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.ToLower(contentType))
	}
	if ext, ok := extensionsByType[mediaType]; ok {
		return ext
	}
	return s.defaultExtension
}

// Save streams r into <dir>/<title><ext>. The data goes to a temporary file first,
// which is renamed on success and removed on every failure path.
func (s *Saver) Save(ctx context.Context, title, contentType string, r io.Reader) (*Artifact, error) {
	if err := EnsureDirs(s.dir); err != nil {
		return nil, fmt.Errorf("creating download directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, partialPrefix+"*.part")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	size, copyErr := io.Copy(tmp, &contextReader{ctx: ctx, r: r})
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		cleanupFiles(tmpPath)
		return nil, fmt.Errorf("writing video: %w", err)
	}

	finalPath := uniquePath(filepath.Join(s.dir, SanitizeFilename(title)+s.ExtensionFor(contentType)))
	if err := os.Rename(tmpPath, finalPath); err != nil {
		cleanupFiles(tmpPath)
		return nil, fmt.Errorf("saving video: %w", err)
	}

	return &Artifact{Path: finalPath, ContentType: contentType, Size: size}, nil
}

// SanitizeFilename makes a video title safe to use as a file name
func SanitizeFilename(title string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", "\x00", "",
	)
	name := strings.TrimSpace(replacer.Replace(title))
	name = strings.Trim(name, ".")
	if name == "" {
		return "video"
	}
	// keep well below common 255 byte file name limits
	if len(name) > 200 {
		name = strings.ToValidUTF8(name[:200], "")
	}
	return name
}

// uniquePath appends " (n)" before the extension until the path is unused
func uniquePath(path string) string {
	if !FileExists(path) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if !FileExists(candidate) {
			return candidate
		}
	}
}

// CleanupPartialDownloads removes interrupted downloads left in dir
func CleanupPartialDownloads(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading download directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, partialPrefix) || !strings.HasSuffix(name, ".part") {
			continue
		}
		filePath := filepath.Join(dir, name)
		if err := os.Remove(filePath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove partial download %s: %v\n", filePath, err)
		}
	}

	return nil
}

// contextReader stops reading once ctx is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// progressReader reports cumulative bytes read
type progressReader struct {
	r        io.Reader
	total    int64
	received int64
	report   func(received, total int64)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.received += int64(n)
		p.report(p.received, p.total)
	}
	return n, err
}
