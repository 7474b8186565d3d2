package vcs

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeRunner maps joined argument strings to canned responses.
type fakeRunner struct {
	responses map[string]string
	errors    map[string]error
	calls     [][]string
}

func (f *fakeRunner) Run(ctx context.Context, args ...string) (string, error) {
	f.calls = append(f.calls, args)
	key := strings.Join(args, " ")
	if err, ok := f.errors[key]; ok {
		return "", err
	}
	return f.responses[key], nil
}

const statusKey = "status --porcelain -z"

func TestStatusParsesEntries(t *testing.T) {
	r := &fakeRunner{responses: map[string]string{
		statusKey: " M main.go\x00?? notes.txt\x00D  gone.go\x00",
	}}

	files, err := Status(context.Background(), r)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Status() returned %d entries, want 3", len(files))
	}

	if files[0].Path != "main.go" || files[0].WorkDir != 'M' {
		t.Errorf("entry 0 = %+v, want modified main.go", files[0])
	}
	if !files[1].IsUntracked() {
		t.Errorf("entry 1 = %+v, want untracked", files[1])
	}
	if !files[2].IsStaged() {
		t.Errorf("entry 2 = %+v, want staged", files[2])
	}
}

func TestStatusConsumesRenamePair(t *testing.T) {
	r := &fakeRunner{responses: map[string]string{
		statusKey: "R  new_name.go\x00old_name.go\x00 M other.go\x00",
	}}

	files, err := Status(context.Background(), r)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Status() returned %d entries, want 2 (origin consumed)", len(files))
	}

	if files[0].Path != "new_name.go" {
		t.Errorf("rename path = %q, want new_name.go", files[0].Path)
	}
	if files[0].Origin != "old_name.go" {
		t.Errorf("rename origin = %q, want old_name.go", files[0].Origin)
	}
	if files[1].Path != "other.go" {
		t.Errorf("entry after rename = %q, want other.go", files[1].Path)
	}
}

func TestStatusCopyPair(t *testing.T) {
	r := &fakeRunner{responses: map[string]string{
		statusKey: "C  copy.go\x00source.go\x00",
	}}

	files, err := Status(context.Background(), r)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("Status() returned %d entries, want 1", len(files))
	}
	if files[0].Path != "copy.go" || files[0].Origin != "source.go" {
		t.Errorf("copy entry = %+v", files[0])
	}
}

func TestStatusEmpty(t *testing.T) {
	r := &fakeRunner{responses: map[string]string{statusKey: ""}}

	files, err := Status(context.Background(), r)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if files != nil {
		t.Errorf("Status() = %v, want nil", files)
	}
}

func TestChangedPathsCanonical(t *testing.T) {
	r := &fakeRunner{responses: map[string]string{
		statusKey: "R  b.go\x00a.go\x00 M c.go\x00",
	}}

	paths, err := ChangedPaths(context.Background(), r)
	if err != nil {
		t.Fatalf("ChangedPaths() error = %v", err)
	}

	want := []string{"b.go", "c.go"}
	if len(paths) != len(want) {
		t.Fatalf("ChangedPaths() = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestHasStagedChanges(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{"staged modification", "M  a.go\x00", true},
		{"worktree only", " M a.go\x00", false},
		{"untracked only", "?? a.go\x00", false},
		{"mixed", " M a.go\x00A  b.go\x00", true},
		{"clean", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{responses: map[string]string{statusKey: tt.status}}
			got, err := HasStagedChanges(context.Background(), r)
			if err != nil {
				t.Fatalf("HasStagedChanges() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("HasStagedChanges() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusError(t *testing.T) {
	r := &fakeRunner{errors: map[string]error{
		statusKey: &Error{Args: []string{"status"}, Stderr: "fatal: not a git repository"},
	}}

	if _, err := Status(context.Background(), r); err == nil {
		t.Fatal("Status() error = nil, want error")
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("exit status 128")
	e := &Error{Args: []string{"push"}, Stderr: "rejected", Err: inner}

	if !errors.Is(e, inner) {
		t.Error("Error should unwrap to the inner error")
	}
	if !strings.Contains(e.Error(), "rejected") {
		t.Errorf("Error() = %q, want stderr included", e.Error())
	}
}
