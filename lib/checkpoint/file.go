package checkpoint

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// accepted timestamp layouts, the last one is what older checkpoint files used
var savedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
}

// FileStore keeps the checkpoint in a two line text file:
//
//	<id>
//	<ISO-8601 timestamp>
type FileStore struct {
	path string
	now  func() time.Time
}

func NewFileStore(path string) FileStore {
	return FileStore{path: path, now: time.Now}
}

func (s FileStore) Path() string {
	return s.path
}

// Save writes to a temporary file next to the checkpoint and renames it over the
// old one, a crash mid-write leaves the previous checkpoint intact.
func (s FileStore) Save(ctx context.Context, id int64) error {
	dir := filepath.Dir(s.path)
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	contents := fmt.Sprintf("%d\n%s\n", id, s.now().Format(time.RFC3339Nano))
	_, err = tmp.WriteString(contents)
	if err == nil {
		err = tmp.Sync()
	}
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}

	err = os.Rename(tmpPath, s.path)
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func (s FileStore) Load(ctx context.Context) (Checkpoint, bool, error) {
	contents, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Checkpoint{}, false, nil
	}
	if err != nil {
		slog.WarnContext(ctx, "unreadable checkpoint, starting from scratch", "path", s.path, "err", err)
		return Checkpoint{}, false, nil
	}

	cp, err := parseFile(string(contents))
	if err != nil {
		slog.WarnContext(ctx, "corrupt checkpoint, starting from scratch", "path", s.path, "err", err)
		return Checkpoint{}, false, nil
	}
	return cp, true, nil
}

func parseFile(contents string) (Checkpoint, error) {
	lines := strings.Split(strings.TrimSpace(contents), "\n")
	if len(lines) < 2 {
		return Checkpoint{}, fmt.Errorf("expected 2 lines, got %d", len(lines))
	}

	id, err := strconv.ParseInt(strings.TrimSpace(lines[0]), 10, 64)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("parse id: %w", err)
	}

	rawSavedAt := strings.TrimSpace(lines[1])
	for _, layout := range savedAtLayouts {
		savedAt, err := time.Parse(layout, rawSavedAt)
		if err == nil {
			return Checkpoint{ID: id, SavedAt: savedAt}, nil
		}
	}
	return Checkpoint{}, fmt.Errorf("parse timestamp %q", rawSavedAt)
}

func (s FileStore) Clear(ctx context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear checkpoint: %w", err)
	}
	return nil
}
