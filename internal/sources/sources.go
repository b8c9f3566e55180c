// Package sources collects raw journal text for one date. Cloud readers
// (Drive exports, OCR pipelines) sit behind the same Reader interface;
// the local reader ships here for filesystem drops.
package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/journalbackend/internal/journal"
)

// blobSeparator joins multiple files from the same channel.
const blobSeparator = "\n\n---\n\n"

// Reader yields the text for one source channel on one date. Empty
// string means the channel had nothing that day.
type Reader interface {
	ReadSource(ctx context.Context, source string, date time.Time) (string, error)
}

// Collect gathers every known channel into a bundle, skipping channels
// with no content.
func Collect(ctx context.Context, r Reader, date time.Time) (journal.SourceBundle, error) {
	bundle := journal.SourceBundle{}
	for _, source := range journal.SourceNames() {
		content, err := r.ReadSource(ctx, source, date)
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", source, err)
		}
		if content != "" {
			bundle[source] = content
		}
	}
	return bundle, nil
}

// LocalReader reads journal drops from a directory tree with one
// subdirectory per source channel.
type LocalReader struct {
	Root string
}

var supportedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// ReadSource concatenates the channel's files whose modification date
// matches the target date. Files are labeled with their channel and name
// so the origin survives merging. A missing channel directory is not an
// error.
func (r LocalReader) ReadSource(_ context.Context, source string, date time.Time) (string, error) {
	dir := filepath.Join(r.Root, source)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read source dir %s: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	target := date.Format(journal.DateFormat)
	var blobs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		if info.ModTime().In(date.Location()).Format(journal.DateFormat) != target {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return "", fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			continue
		}
		blobs = append(blobs, fmt.Sprintf("[%s: %s]\n%s", strings.ToUpper(source), entry.Name(), content))
	}

	return strings.Join(blobs, blobSeparator), nil
}
