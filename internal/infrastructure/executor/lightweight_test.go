package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/ports"
)

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

type runnerResponse struct {
	result ports.ProcessResult
	err    error
}

// fakeRunner records argv and replays scripted responses in order.
type fakeRunner struct {
	calls [][]string
	queue []runnerResponse
}

func (f *fakeRunner) Run(_ context.Context, argv []string) (ports.ProcessResult, error) {
	f.calls = append(f.calls, argv)
	if len(f.queue) == 0 {
		return ports.ProcessResult{}, nil
	}
	resp := f.queue[0]
	f.queue = f.queue[1:]
	return resp.result, resp.err
}

func TestLightweightCommandConstruction(t *testing.T) {
	tests := []struct {
		name string
		op   domain.Operation
		want []string
	}{
		{
			name: "file read",
			op:   domain.Operation{Type: domain.OpFileRead, Path: "main.go"},
			want: []string{"swb", "read", "main.go"},
		},
		{
			name: "directory list with path",
			op:   domain.Operation{Type: domain.OpDirectoryList, Path: "internal"},
			want: []string{"swb", "ls", "internal"},
		},
		{
			name: "directory list defaults to cwd",
			op:   domain.Operation{Type: domain.OpDirectoryList},
			want: []string{"swb", "ls", "."},
		},
		{
			name: "pattern search",
			op:   domain.Operation{Type: domain.OpPatternSearch, Pattern: "TODO", Path: "src"},
			want: []string{"swb", "grep", "TODO", "src"},
		},
		{
			name: "git status",
			op:   domain.Operation{Type: domain.OpGitStatus},
			want: []string{"swb", "git", "status"},
		},
		{
			name: "git commit",
			op:   domain.Operation{Type: domain.OpGitCommit},
			want: []string{"swb", "git", "commit"},
		},
		{
			name: "unmapped type falls back to prompt mode",
			op:   domain.Operation{Type: domain.OpFormatCode, Description: "format the repo"},
			want: []string{"swb", "-p", "format the repo"},
		},
		{
			name: "prompt fallback uses type when description is empty",
			op:   domain.Operation{Type: domain.OpFormatCode},
			want: []string{"swb", "-p", "format-code"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			e := NewLightweight("swb", runner, nopLogger{})
			if _, err := e.Execute(context.Background(), tt.op, domain.Snapshot{}); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if len(runner.calls) != 1 {
				t.Fatalf("runner called %d times, want 1", len(runner.calls))
			}
			if diff := cmp.Diff(tt.want, runner.calls[0]); diff != "" {
				t.Fatalf("argv mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLightweightValidation(t *testing.T) {
	tests := []struct {
		name      string
		op        domain.Operation
		wantField string
	}{
		{name: "missing type", op: domain.Operation{}, wantField: "type"},
		{name: "file read needs path", op: domain.Operation{Type: domain.OpFileRead}, wantField: "path"},
		{name: "pattern search needs pattern", op: domain.Operation{Type: domain.OpPatternSearch}, wantField: "pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			e := NewLightweight("swb", runner, nopLogger{})
			_, err := e.Execute(context.Background(), tt.op, domain.Snapshot{})

			var validation *domain.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("Execute() error = %v, want *domain.ValidationError", err)
			}
			if validation.Field != tt.wantField {
				t.Fatalf("validation field = %q, want %q", validation.Field, tt.wantField)
			}
			if len(runner.calls) != 0 {
				t.Fatal("validation failure must not spawn a process")
			}
		})
	}
}

func TestLightweightSuccessCarriesStdout(t *testing.T) {
	runner := &fakeRunner{queue: []runnerResponse{
		{result: ports.ProcessResult{Stdout: "file contents"}},
	}}
	e := NewLightweight("swb", runner, nopLogger{})

	got, err := e.Execute(context.Background(), domain.Operation{Type: domain.OpFileRead, Path: "a.go"}, domain.Snapshot{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := domain.Result{Output: "file contents", Method: "lightweight"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestLightweightNonZeroExitIsExecutionError(t *testing.T) {
	runner := &fakeRunner{queue: []runnerResponse{
		{result: ports.ProcessResult{ExitCode: 2, Stderr: "no such file\n"}},
	}}
	e := NewLightweight("swb", runner, nopLogger{})

	_, err := e.Execute(context.Background(), domain.Operation{Type: domain.OpFileRead, Path: "a.go"}, domain.Snapshot{})
	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Execute() error = %v, want *domain.ExecutionError", err)
	}
	if execErr.ExitCode != 2 || execErr.Stderr != "no such file" {
		t.Fatalf("execution error = %+v, want exit 2 with trimmed stderr", execErr)
	}
}

func TestLightweightDeadlineIsTimeoutError(t *testing.T) {
	runner := &fakeRunner{queue: []runnerResponse{
		{err: context.DeadlineExceeded},
	}}
	e := NewLightweight("swb", runner, nopLogger{})

	_, err := e.Execute(context.Background(), domain.Operation{Type: domain.OpGitStatus}, domain.Snapshot{})
	var timeout *domain.TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("Execute() error = %v, want *domain.TimeoutError", err)
	}
}

func TestLightweightSpawnFailureIsExecutionError(t *testing.T) {
	runner := &fakeRunner{queue: []runnerResponse{
		{err: errors.New("executable not found")},
	}}
	e := NewLightweight("swb", runner, nopLogger{})

	_, err := e.Execute(context.Background(), domain.Operation{Type: domain.OpGitStatus}, domain.Snapshot{})
	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Execute() error = %v, want *domain.ExecutionError", err)
	}
}
