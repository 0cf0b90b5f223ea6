// Package results writes the diagnostic side log: when a run is quit
// before the questionnaire terminates, the answers collected so far
// are appended to a YAML log so nothing typed is silently lost. The
// log is advisory, not a durable transaction.
package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/harrison/labeller/internal/session"
)

// Answer is one logged (identity, raw text) pair.
type Answer struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

// Entry is one logged quit event.
type Entry struct {
	QuitAt  time.Time `yaml:"quit_at"`
	Answers []Answer  `yaml:"answers"`
}

// Log appends quit entries to a file. Access is guarded by a flock
// sidecar so concurrent labeller processes do not interleave writes.
type Log struct {
	path string
	now  func() time.Time
}

// NewLog builds a log writing to path.
func NewLog(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// Append records the session's current raw answers as one YAML
// document at the end of the log.
func (l *Log) Append(raw []session.RawResult) error {
	entry := Entry{QuitAt: l.now()}
	for _, r := range raw {
		entry.Answers = append(entry.Answers, Answer{ID: r.ID, Text: r.Text})
	}
	data, err := yaml.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create results directory: %w", err)
	}

	lock := flock.New(l.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock results log: %w", err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open results log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "---\n%s", data); err != nil {
		return fmt.Errorf("append results: %w", err)
	}
	return f.Sync()
}

// Read parses every logged entry, oldest first.
func (l *Log) Read() ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open results log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	dec := yaml.NewDecoder(f)
	for {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			break
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteLatest atomically replaces the "<path>.latest" companion file
// with the given entry, so the most recent aborted run is readable
// without scanning the whole log. A temp file in the same directory is
// renamed over the target, so readers never see a partial write.
func (l *Log) WriteLatest(raw []session.RawResult) error {
	entry := Entry{QuitAt: l.now()}
	for _, r := range raw {
		entry.Answers = append(entry.Answers, Answer{ID: r.ID, Text: r.Text})
	}
	data, err := yaml.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	return atomicWrite(l.path+".latest", data)
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", path, err)
	}
	tmp = nil
	return nil
}
