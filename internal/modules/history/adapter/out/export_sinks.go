package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"pmdrill/internal/modules/history/domain"
	historyout "pmdrill/internal/modules/history/port/out"
	"pmdrill/internal/platform/atomicfile"
	"pmdrill/internal/platform/markdown"
)

// FileExportSink writes exports into a directory. Re-exporting a markdown
// file refreshes the generated block and keeps everything else the user
// added to the document body.
type FileExportSink struct {
	dir string
}

func NewFileExportSink(dir string) historyout.ExportSink {
	return &FileExportSink{dir: dir}
}

func (s *FileExportSink) Save(_ context.Context, filename string, payload []byte) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("export filename is required")
	}
	path := filepath.Join(s.dir, name)
	if strings.HasSuffix(name, ".md") {
		merged, err := mergeMarkdown(path, string(payload))
		if err != nil {
			return "", err
		}
		payload = []byte(merged)
	}
	if err := atomicfile.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

func mergeMarkdown(path, generated string) (string, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return generated, nil
		}
		return "", fmt.Errorf("read existing export: %w", err)
	}
	meta := map[string]any{}
	genBody, err := markdown.SplitFrontmatter(generated, &meta)
	if err != nil {
		return "", err
	}
	block, ok := domain.ExportBlock.Extract(genBody)
	if !ok {
		return generated, nil
	}
	oldBody, err := markdown.SplitFrontmatter(string(existing), &map[string]any{})
	if err != nil {
		return generated, nil
	}
	return markdown.RenderFrontmatter(meta, domain.ExportBlock.Replace(oldBody, block))
}

// ClipboardExportSink copies the export to the system clipboard.
type ClipboardExportSink struct {
	write       func(string) error
	unsupported bool
}

func NewClipboardExportSink() historyout.ExportSink {
	return &ClipboardExportSink{write: clipboard.WriteAll, unsupported: clipboard.Unsupported}
}

// NewClipboardExportSinkWith substitutes the clipboard writer.
func NewClipboardExportSinkWith(write func(string) error) historyout.ExportSink {
	return &ClipboardExportSink{write: write}
}

func (s *ClipboardExportSink) Save(_ context.Context, _ string, payload []byte) (string, error) {
	if s.unsupported {
		return "", fmt.Errorf("clipboard is not supported on this system")
	}
	if err := s.write(string(payload)); err != nil {
		return "", fmt.Errorf("copy to clipboard: %w", err)
	}
	return "clipboard", nil
}
