// Package history keeps copies of edited documents so earlier results can be
// listed, viewed again and compared.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// CommandApply marks output saved by a batch edit
	CommandApply = "apply"
	// CommandView marks output saved from the interactive editor
	CommandView = "view"
	// CommandWatch marks output saved by watch mode
	CommandWatch = "watch"

	timestampLayout = "2006-01-02_15-04-05"
	separator       = "================================================================================"
)

var knownCommands = map[string]bool{
	CommandApply: true,
	CommandView:  true,
	CommandWatch: true,
}

// ErrNotFound is returned when a history entry does not exist
var ErrNotFound = errors.New("history entry not found")

// Entry represents a history file entry
type Entry struct {
	Path      string
	Timestamp time.Time
	Document  string // sanitized input file name
	Command   string // apply, view, watch
	Filename  string
}

// Record is the parsed content of a history file
type Record struct {
	Timestamp string
	Command   string
	Input     string
	Edits     string
	Lines     []string
}

// Store manages history files in one directory
type Store struct {
	Dir string
	Max int // files kept by Cleanup; zero keeps everything

	now func() time.Time
}

// NewStore creates a store rooted at dir
func NewStore(dir string, max int) *Store {
	return &Store{Dir: dir, Max: max, now: time.Now}
}

func (s *Store) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// ensureDir creates the history directory if it doesn't exist
func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	return nil
}

// sanitizeDocumentName makes an input path safe to embed in a filename.
// Underscores MUST be replaced since they're used as filename delimiters.
func sanitizeDocumentName(path string) string {
	name := filepath.Base(path)
	if path == "" || path == "-" || name == "." || name == string(filepath.Separator) {
		name = "stdin"
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))

	replacer := strings.NewReplacer(
		"_", "-",
		" ", "-",
		"/", "-",
		"\\", "-",
		":", "-",
		".", "-",
	)
	name = replacer.Replace(name)
	if name == "" {
		name = "document"
	}
	if len(name) > 30 {
		name = name[:30]
	}
	if knownCommands[name] {
		name = name + "-doc"
	}
	return name
}

// Save writes a history file for a document and returns its path
func (s *Store) Save(command, inputPath string, edits []string, lines []string) (string, error) {
	if !knownCommands[command] {
		return "", fmt.Errorf("unknown history command %q", command)
	}
	if err := s.ensureDir(); err != nil {
		return "", err
	}

	now := s.clock()
	doc := sanitizeDocumentName(inputPath)
	path := filepath.Join(s.Dir, fmt.Sprintf("%s_%s_%s.txt", now.Format(timestampLayout), doc, command))
	for i := 2; fileExists(path); i++ {
		path = filepath.Join(s.Dir, fmt.Sprintf("%s_%s-%d_%s.txt", now.Format(timestampLayout), doc, i, command))
	}

	var b strings.Builder
	b.WriteString(header(now, command, inputPath, edits))
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write history file: %w", err)
	}
	return path, nil
}

func header(now time.Time, command, inputPath string, edits []string) string {
	if inputPath == "" || inputPath == "-" {
		inputPath = "(stdin)"
	}
	editList := strings.Join(edits, " ")
	if editList == "" {
		editList = "(none)"
	}
	return fmt.Sprintf(`%s
markprism history
%s
Timestamp:   %s
Command:     %s
Input:       %s
Edits:       %s
%s
`, separator, separator, now.Format("2006-01-02 15:04:05 MST"), command, inputPath, editList, separator)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// List returns all history entries, newest first. A non-empty filterCommand
// keeps only entries saved by that command.
func (s *Store) List(filterCommand string) ([]Entry, error) {
	files, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".txt") {
			continue
		}
		entry, err := parseFilename(f.Name())
		if err != nil {
			continue // Skip files that don't match our format
		}
		if filterCommand != "" && entry.Command != filterCommand {
			continue
		}
		entry.Path = filepath.Join(s.Dir, f.Name())
		entry.Filename = f.Name()
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Filename > entries[j].Filename
		}
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// Resolve returns the entry at a 1-based position in List order
func (s *Store) Resolve(index int) (Entry, error) {
	entries, err := s.List("")
	if err != nil {
		return Entry{}, err
	}
	if index < 1 || index > len(entries) {
		return Entry{}, fmt.Errorf("%w: #%d (have %d)", ErrNotFound, index, len(entries))
	}
	return entries[index-1], nil
}

// Cleanup deletes the oldest files beyond Max and returns how many were removed
func (s *Store) Cleanup() (int, error) {
	if s.Max <= 0 {
		return 0, nil
	}
	entries, err := s.List("")
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, e := range entries[min(s.Max, len(entries)):] {
		if err := os.Remove(e.Path); err != nil {
			return deleted, fmt.Errorf("failed to remove %s: %w", e.Filename, err)
		}
		deleted++
	}
	return deleted, nil
}

// Clear deletes every history file and returns how many were removed
func (s *Store) Clear() (int, error) {
	entries, err := s.List("")
	if err != nil {
		return 0, err
	}
	for i, e := range entries {
		if err := os.Remove(e.Path); err != nil {
			return i, fmt.Errorf("failed to remove %s: %w", e.Filename, err)
		}
	}
	return len(entries), nil
}

// parseFilename parses YYYY-MM-DD_HH-MM-SS_<document>_<command>.txt
func parseFilename(filename string) (Entry, error) {
	base := strings.TrimSuffix(filename, ".txt")
	parts := strings.Split(base, "_")
	if len(parts) != 4 {
		return Entry{}, fmt.Errorf("invalid filename format")
	}

	timestamp, err := time.ParseInLocation(timestampLayout, parts[0]+"_"+parts[1], time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	if !knownCommands[parts[3]] {
		return Entry{}, fmt.Errorf("unknown command: %s", parts[3])
	}

	return Entry{
		Timestamp: timestamp,
		Document:  parts[2],
		Command:   parts[3],
	}, nil
}

// Read parses a history file into its header fields and document lines
func Read(path string) (*Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	rec := &Record{}
	separators := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if separators < 3 {
			if line == separator {
				separators++
				continue
			}
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch key {
			case "Timestamp":
				rec.Timestamp = value
			case "Command":
				rec.Command = value
			case "Input":
				rec.Input = value
			case "Edits":
				rec.Edits = value
			}
			continue
		}
		rec.Lines = append(rec.Lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	if separators < 3 {
		return nil, fmt.Errorf("malformed history file %s", filepath.Base(path))
	}
	return rec, nil
}

// FormatEntry formats an entry for display
func FormatEntry(e Entry) string {
	doc := e.Document
	if len(doc) > 20 {
		doc = doc[:17] + "..."
	}
	return fmt.Sprintf("%s  %-20s  %-6s",
		e.Timestamp.Format("2006-01-02 15:04:05"),
		doc,
		e.Command,
	)
}

// TruncatePath shortens a path to at most max characters, keeping its tail
func TruncatePath(path string, max int) string {
	if len(path) <= max || max <= 3 {
		return path
	}
	return "..." + path[len(path)-(max-3):]
}
