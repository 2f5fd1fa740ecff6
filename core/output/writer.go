// Package output handles file naming and writing for CardPipe outputs.
// Fragments are named after their kind (e.g. announcements.html,
// privacy.fr.md); built pages mirror the site path structure.
package output

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WriteFragment writes a rendered fragment. Name parts are sanitized and
// joined with dots: ("privacy", "fr") + ".md" → privacy.fr.md.
func (w *Writer) WriteFragment(data []byte, ext string, nameParts ...string) (string, error) {
	parts := make([]string, 0, len(nameParts))
	for _, p := range nameParts {
		if s := sanitize(p); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "fragment")
	}
	path := filepath.Join(w.OutputDir, strings.Join(parts, ".")+ext)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// WritePage writes an assembled page, mirroring its site path.
// Example: legal/terms.html → <out>/legal/terms.html
func (w *Writer) WritePage(sitePath string, data []byte) (string, error) {
	fullPath, err := w.target(sitePath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", filepath.Dir(fullPath), err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", fullPath, err)
	}
	return fullPath, nil
}

// CopyAsset copies a non-page file from the site into the output tree.
func (w *Writer) CopyAsset(fsys fs.FS, sitePath string) (string, error) {
	src, err := fsys.Open(sitePath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", sitePath, err)
	}
	defer src.Close()

	fullPath, err := w.target(sitePath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", filepath.Dir(fullPath), err)
	}
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", fullPath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("copying %s: %w", sitePath, err)
	}
	return fullPath, dst.Close()
}

// target maps a site path into the output directory, rejecting paths that
// would escape it.
func (w *Writer) target(sitePath string) (string, error) {
	clean := strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+sitePath)), "/")
	if clean == "" || !fs.ValidPath(clean) {
		return "", fmt.Errorf("invalid site path %q", sitePath)
	}
	return filepath.Join(w.OutputDir, filepath.FromSlash(clean)), nil
}

// sanitize replaces characters other than letters, digits, '-' and '_'
// with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' || ch == '_' {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
