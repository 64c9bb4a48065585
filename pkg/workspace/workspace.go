package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// packageDeclRegex matches a Java package declaration, e.g. "package com.example.api;".
var packageDeclRegex = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+)\s*;`)

// Store is a file store scoped to a single root directory. All paths passed
// in are relative to that root; intermediate directories are created as
// needed. Listings skip build outputs via a gitignore-style matcher.
type Store struct {
	root    string
	ignorer *ignore.GitIgnore
}

// buildOutputPatterns are always excluded from listings. They cover the
// outputs javac and Maven leave in the workspace between attempts.
var buildOutputPatterns = []string{
	"*.class",
	"target/",
	".git/",
	"*.log",
}

// NewStore creates a store rooted at root, creating the directory if needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory %s: %w", root, err)
	}
	return &Store{
		root:    root,
		ignorer: ignore.CompileIgnoreLines(buildOutputPatterns...),
	}, nil
}

// Root returns the absolute root of the store.
func (s *Store) Root() string {
	return s.root
}

// WriteFile writes content to a path relative to the root, creating any
// intermediate directories.
func (s *Store) WriteFile(relPath, content string) error {
	fullPath := filepath.Join(s.root, relPath)
	if dir := filepath.Dir(fullPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("could not write file %s: %w", relPath, err)
	}
	return nil
}

// ReadFile reads a file relative to the root.
func (s *Store) ReadFile(relPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.root, relPath))
	if err != nil {
		return "", fmt.Errorf("could not read file %s: %w", relPath, err)
	}
	return string(data), nil
}

// List returns the relative paths of all files under the root, excluding
// build outputs. Paths use forward slashes and are sorted by walk order.
func (s *Store) List() ([]string, error) {
	var files []string
	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			if rel != "." && s.ignorer.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if s.ignorer.MatchesPath(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace %s: %w", s.root, err)
	}
	return files, nil
}

// JavaPackagePath derives the directory an artifact belongs in from its
// package declaration: "package a.b;" maps to "a/b". Content with zero or
// with multiple package declarations maps to the workspace root ("").
func JavaPackagePath(content string) string {
	matches := packageDeclRegex.FindAllStringSubmatch(content, -1)
	if len(matches) != 1 {
		return ""
	}
	return strings.ReplaceAll(matches[0][1], ".", string(filepath.Separator))
}
