// Package output names, writes, and reads back Output Documents: one JSON
// array of mazes per batch.
package output

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samdwyer/mazebatch/internal/batch"
	"github.com/samdwyer/mazebatch/internal/logging"
)

// DefaultFileName is used for single-size runs.
const DefaultFileName = "mazes.json"

const (
	permFile = 0o644
	permDir  = 0o755
	bufSize  = 64 * 1024
)

// FileName returns the per-size document name used by sweeps.
func FileName(size int) string {
	return fmt.Sprintf("mazes_%d.json", size)
}

// Writer persists batches under Dir. Every write fully replaces the target
// file, and a failed write leaves the previous content untouched.
type Writer struct {
	Dir string
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) (*Writer, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	return &Writer{Dir: dir}, nil
}

var _ batch.Sink = (*Writer)(nil)

// WriteBatch writes a sweep batch to mazes_<size>.json.
func (w *Writer) WriteBatch(ctx context.Context, size int, b *batch.Batch) error {
	_, err := w.Write(ctx, FileName(size), b)
	return err
}

// Write encodes the batch and atomically writes it to Dir/name.
// It returns the path written.
func (w *Writer) Write(ctx context.Context, name string, b *batch.Batch) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if b == nil {
		return "", fmt.Errorf("write %s: nil batch", name)
	}

	dest, err := w.mapPath(name)
	if err != nil {
		return "", err
	}

	data, err := Encode(b)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", dest, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), permDir); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := writeAtomic(dest, data); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}

	logging.FromContext(ctx).Info().
		Str("path", dest).
		Int("mazes", b.Len()).
		Int("bytes", len(data)).
		Msg("output document written")
	return dest, nil
}

// Encode renders the Output Document: the JSON array of the batch's mazes.
func Encode(b *batch.Batch) ([]byte, error) {
	mazes := b.Mazes
	if mazes == nil {
		mazes = []any{}
	}
	return json.Marshal(mazes)
}

// mapPath keeps the file inside Dir: only the base name is used.
func (w *Writer) mapPath(name string) (string, error) {
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == ".." || base == string(filepath.Separator) || base == "" {
		return "", fmt.Errorf("invalid output file name %q", name)
	}
	return filepath.Join(w.Dir, base), nil
}

// writeAtomic writes data to a temp file in the destination directory and
// renames it over dest.
func writeAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-mazes-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if err := tmp.Chmod(permFile); err != nil {
		return cleanup(err)
	}
	bw := bufio.NewWriterSize(tmp, bufSize)
	if _, err := bw.Write(data); err != nil {
		return cleanup(err)
	}
	if err := bw.Flush(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	_ = syncDir(dir)
	return nil
}

// syncDir best-effort fsyncs the parent directory so the rename persists.
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
