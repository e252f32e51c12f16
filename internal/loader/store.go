// Package loader locates and reads netplan documents.
//
// Documents are discovered in a list of directories (by default the
// system netplan directories), where a file in a later directory
// replaces a file with the same name in an earlier one. The resulting
// documents are always returned in ascending filename order, which is
// the order the registry merges them in.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"netplan-parser/internal/domain"
	"netplan-parser/internal/logging"
)

// Extension is the suffix of files considered netplan documents.
const Extension = ".yaml"

// DefaultDirs are the directories netplan itself reads, lowest priority first.
var DefaultDirs = []string{"/lib/netplan", "/etc/netplan", "/run/netplan"}

// Store reads documents either from explicit files or from directories.
type Store struct {
	dirs    []string
	exclude map[string]bool
	log     *logging.Logger
}

// NewStore creates a store scanning dirs. Names in exclude are bare
// filenames (e.g. "99-storpool.yaml") skipped during discovery.
func NewStore(dirs, exclude []string) *Store {
	if len(dirs) == 0 {
		dirs = DefaultDirs
	}
	ex := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		ex[filepath.Base(name)] = true
	}
	return &Store{
		dirs:    dirs,
		exclude: ex,
		log:     logging.WithComponent("loader"),
	}
}

// Dirs returns the directories the store scans.
func (s *Store) Dirs() []string {
	return append([]string(nil), s.dirs...)
}

// FindFiles returns the full paths of the documents to parse, sorted by
// filename. Missing directories are skipped.
func (s *Store) FindFiles() ([]string, error) {
	byName := make(map[string]string)

	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				s.log.Debug("Skipping missing directory", "dir", dir)
				continue
			}
			return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
		}

		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasSuffix(name, Extension) {
				continue
			}
			path := filepath.Join(dir, name)
			if !isRegularFile(path) {
				continue
			}
			byName[name] = path
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		if s.exclude[name] {
			s.log.Debug("Excluding file", "file", name)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = byName[name]
	}
	return paths, nil
}

// Load discovers and reads every document.
func (s *Store) Load() ([]domain.RawDocument, error) {
	paths, err := s.FindFiles()
	if err != nil {
		return nil, err
	}
	return s.LoadFiles(paths)
}

// LoadFiles reads the given files. A file whose name repeats an earlier
// one replaces it. The first unreadable or unparsable file aborts the load.
func (s *Store) LoadFiles(paths []string) ([]domain.RawDocument, error) {
	byName := make(map[string]domain.RawDocument, len(paths))

	for _, path := range paths {
		doc, err := LoadYAML(path)
		if err != nil {
			return nil, err
		}
		s.log.Debug("Loaded netplan file", "path", path)
		byName[doc.Filename] = doc
	}

	docs := make([]domain.RawDocument, 0, len(byName))
	for _, doc := range byName {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Filename < docs[j].Filename })
	return docs, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
