package mailsource

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"rentops/owner-ledger/internal/logging"
)

// DirSource is a Source backed by a directory of PDF files. The filename is
// the message id; acknowledged ids are appended to a sidecar file so they
// survive restarts. It exists so the pipeline runs end to end without any
// mail provider plumbing.
type DirSource struct {
	dir           string
	processedFile string
	logger        logging.Logger

	mu        sync.Mutex
	processed map[string]bool
}

// NewDirSource creates a directory-backed source. processedFile is resolved
// relative to dir when not absolute.
func NewDirSource(dir, processedFile string, logger logging.Logger) (*DirSource, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if processedFile == "" {
		processedFile = ".processed"
	}
	if !filepath.IsAbs(processedFile) {
		processedFile = filepath.Join(dir, processedFile)
	}

	s := &DirSource{
		dir:           dir,
		processedFile: processedFile,
		logger:        logger,
		processed:     make(map[string]bool),
	}
	if err := s.loadProcessed(); err != nil {
		return nil, err
	}
	return s, nil
}

// FetchCandidates lists the unacknowledged PDFs in the directory, sorted by
// name for deterministic batch order. The query is unused here; it exists
// for mail-provider implementations.
func (s *DirSource) FetchCandidates(ctx context.Context, query string) ([]Message, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", s.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var messages []Message
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.mu.Lock()
		done := s.processed[name]
		s.mu.Unlock()
		if done {
			continue
		}

		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.WithError(err).Warn("Skipping unreadable file",
				logging.Field{Key: logging.FieldInputFile, Value: path})
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		messages = append(messages, Message{
			ID:         name,
			ReceivedAt: info.ModTime(),
			Attachment: data,
		})
	}

	s.logger.Debug("Fetched candidate documents",
		logging.Field{Key: logging.FieldCount, Value: len(messages)})
	return messages, nil
}

// MarkProcessed records the id in memory and in the sidecar file.
func (s *DirSource) MarkProcessed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processed[id] {
		return nil
	}
	s.processed[id] = true

	f, err := os.OpenFile(s.processedFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open processed file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.WithError(cerr).Warn("Failed to close processed file")
		}
	}()

	if _, err := fmt.Fprintln(f, id); err != nil {
		return fmt.Errorf("failed to record processed id: %w", err)
	}
	return nil
}

// loadProcessed reads previously acknowledged ids from the sidecar file.
func (s *DirSource) loadProcessed() error {
	f, err := os.Open(s.processedFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open processed file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.WithError(cerr).Warn("Failed to close processed file")
		}
	}()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id != "" {
			s.processed[id] = true
		}
	}
	return scanner.Err()
}
