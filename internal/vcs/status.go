package vcs

import (
	"context"
	"fmt"
	"strings"
)

// Git porcelain v1 format constants
// Format: XY PATH where X=index status, Y=worktree status
// See: https://git-scm.com/docs/git-status#_short_format
const (
	gitStatusIndexPos   = 0 // Position of index (staged) status character
	gitStatusWorkDirPos = 1 // Position of working directory status character
	gitStatusPathStart  = 3 // Position where file path begins (after "XY ")
	gitStatusMinLength  = 4 // Minimum valid entry length (XY + space + at least 1 char)
)

// FileStatus represents a file's git status
type FileStatus struct {
	Index   byte   // Status in index
	WorkDir byte   // Status in working directory
	Path    string // File path (the new path for renames and copies)
	Origin  string // Original path for renames and copies, else empty
}

// IsStaged returns true if the file is staged
func (f FileStatus) IsStaged() bool {
	return f.Index != ' ' && f.Index != '?'
}

// IsUntracked returns true if the file is untracked
func (f FileStatus) IsUntracked() bool {
	return f.Index == '?' && f.WorkDir == '?'
}

// Status returns uncommitted changes.
//
// Rename and copy entries occupy two NUL-terminated records in -z output:
// the new path followed by the origin path. The origin record is consumed
// into the FileStatus and never emitted as its own entry.
func Status(ctx context.Context, r Runner) ([]FileStatus, error) {
	out, err := r.Run(ctx, "status", "--porcelain", "-z")
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}

	if out == "" {
		return nil, nil
	}

	var files []FileStatus
	entries := strings.Split(strings.TrimSuffix(out, "\x00"), "\x00")
	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		if len(entry) < gitStatusMinLength {
			continue
		}
		fs := FileStatus{
			Index:   entry[gitStatusIndexPos],
			WorkDir: entry[gitStatusWorkDirPos],
			Path:    entry[gitStatusPathStart:],
		}
		if fs.Index == 'R' || fs.Index == 'C' || fs.WorkDir == 'R' || fs.WorkDir == 'C' {
			if i+1 < len(entries) {
				i++
				fs.Origin = entries[i]
			}
		}
		files = append(files, fs)
	}

	return files, nil
}

// ChangedPaths returns the canonical paths of all uncommitted changes.
func ChangedPaths(ctx context.Context, r Runner) ([]string, error) {
	files, err := Status(ctx, r)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	return paths, nil
}

// HasStagedChanges reports whether anything is already in the index.
func HasStagedChanges(ctx context.Context, r Runner) (bool, error) {
	files, err := Status(ctx, r)
	if err != nil {
		return false, err
	}
	for _, f := range files {
		if f.IsStaged() {
			return true, nil
		}
	}
	return false, nil
}
