package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/valksor/go-wachter/internal/engine"
)

func TestReportAttempt(t *testing.T) {
	tests := []struct {
		name    string
		attempt engine.Attempt
		want    string
		wantErr bool
	}{
		{
			name:    "committed",
			attempt: engine.Attempt{Outcome: engine.OutcomeCommitted, Hash: "abc1234def", Message: "Fix parser"},
			want:    "committed abc1234: Fix parser",
		},
		{
			name:    "skipped",
			attempt: engine.Attempt{Outcome: engine.OutcomeSkipped},
			want:    "nothing to commit",
		},
		{
			name:    "dropped",
			attempt: engine.Attempt{Outcome: engine.OutcomeDropped},
			want:    "commit already in flight",
		},
		{
			name:    "aborted",
			attempt: engine.Attempt{Outcome: engine.OutcomeAborted, Err: errors.New("index locked")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := reportAttempt(&buf, tt.attempt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("reportAttempt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.want != "" && !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
			if tt.wantErr && buf.Len() != 0 {
				t.Errorf("aborted attempt printed %q, want error only", buf.String())
			}
		})
	}
}

func TestReportAttemptShortHash(t *testing.T) {
	var buf bytes.Buffer
	attempt := engine.Attempt{Outcome: engine.OutcomeCommitted, Hash: "ab12", Message: "m"}

	if err := reportAttempt(&buf, attempt); err != nil {
		t.Fatalf("reportAttempt() error = %v", err)
	}
	if !strings.Contains(buf.String(), "ab12") {
		t.Errorf("output = %q, want the full short hash", buf.String())
	}
}
