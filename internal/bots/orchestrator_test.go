package bots

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeRunner struct {
	result RunResult
	err    error
	calls  []string
}

func (f *fakeRunner) Run(_ context.Context, command, workDir string, _ time.Duration) (RunResult, error) {
	f.calls = append(f.calls, workDir+"::"+command)
	return f.result, f.err
}

type fakeInspector struct {
	count int
	err   error
	calls int
}

func (f *fakeInspector) CountMatching(_ context.Context, _ string) (int, error) {
	f.calls++
	return f.count, f.err
}

func newTestOrchestrator(t *testing.T, def Definition, runner ProcessRunner, inspector ProcessInspector) *Orchestrator {
	t.Helper()
	if runner == nil {
		runner = &fakeRunner{}
	}
	if inspector == nil {
		inspector = &fakeInspector{}
	}
	return New(NewRegistry(def), runner, inspector, time.Minute, zap.NewNop())
}

func writeScript(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/bash\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
}

func TestUnknownBotAlwaysNotFound(t *testing.T) {
	o := newTestOrchestrator(t, Definition{ID: "x", Path: t.TempDir()}, nil, nil)
	ctx := context.Background()

	if _, err := o.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get err=%v want ErrNotFound", err)
	}
	if err := o.Start(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Start err=%v want ErrNotFound", err)
	}
	if err := o.Stop(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Stop err=%v want ErrNotFound", err)
	}
	if _, err := o.Status(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Status err=%v want ErrNotFound", err)
	}
	if _, err := o.Positions("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Positions err=%v want ErrNotFound", err)
	}
	if _, err := o.Signals("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Signals err=%v want ErrNotFound", err)
	}
}

func TestStartScriptMissing(t *testing.T) {
	dir := t.TempDir()
	def := Definition{ID: "x", Path: dir, StartScript: "start.sh"}
	runner := &fakeRunner{}
	inspector := &fakeInspector{count: 0}
	o := newTestOrchestrator(t, def, runner, inspector)

	err := o.Start(context.Background(), "x")
	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("err=%v want ProcessError", err)
	}
	if procErr.Reason != "script missing" {
		t.Fatalf("reason=%q want script missing", procErr.Reason)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("runner invoked for missing script: %v", runner.calls)
	}

	// Derived status is untouched by the failed start.
	status, err := o.Status(context.Background(), "x")
	if err != nil {
		t.Fatalf("Status err=%v", err)
	}
	if status != StatusInactive {
		t.Fatalf("status=%s want inactive", status)
	}
}

func TestStartSuccess(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "start.sh")
	def := Definition{ID: "x", Path: dir, StartScript: "start.sh"}
	runner := &fakeRunner{result: RunResult{ExitCode: 0}}
	o := newTestOrchestrator(t, def, runner, nil)

	if err := o.Start(context.Background(), "x"); err != nil {
		t.Fatalf("Start err=%v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("calls=%v want one", runner.calls)
	}
	want := dir + "::bash start.sh"
	if runner.calls[0] != want {
		t.Fatalf("call=%q want %q", runner.calls[0], want)
	}
}

func TestStartNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "start.sh")
	def := Definition{ID: "x", Path: dir, StartScript: "start.sh"}
	runner := &fakeRunner{result: RunResult{ExitCode: 1, Stderr: "boom"}}
	o := newTestOrchestrator(t, def, runner, nil)

	err := o.Start(context.Background(), "x")
	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("err=%v want ProcessError", err)
	}
	if procErr.Reason != "start failed" {
		t.Fatalf("reason=%q want start failed", procErr.Reason)
	}
	if procErr.Stderr != "boom" {
		t.Fatalf("stderr=%q want boom", procErr.Stderr)
	}
}

func TestStartTimeout(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "start.sh")
	def := Definition{ID: "x", Path: dir, StartScript: "start.sh"}
	runner := &fakeRunner{result: RunResult{ExitCode: -1}, err: ErrRunTimeout}
	o := newTestOrchestrator(t, def, runner, nil)

	err := o.Start(context.Background(), "x")
	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("err=%v want ProcessError", err)
	}
	if procErr.Reason != "timed out" {
		t.Fatalf("reason=%q want timed out", procErr.Reason)
	}
}

func TestStopUsesStopScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "stop.sh")
	def := Definition{ID: "x", Path: dir, StartScript: "start.sh", StopScript: "stop.sh"}
	runner := &fakeRunner{result: RunResult{ExitCode: 0}}
	o := newTestOrchestrator(t, def, runner, nil)

	if err := o.Stop(context.Background(), "x"); err != nil {
		t.Fatalf("Stop err=%v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0] != dir+"::bash stop.sh" {
		t.Fatalf("calls=%v", runner.calls)
	}
}

func TestStatusDerivation(t *testing.T) {
	tests := []struct {
		name  string
		count int
		err   error
		want  Status
	}{
		{"running process", 2, nil, StatusActive},
		{"no process", 0, nil, StatusInactive},
		{"inspection failure", 0, errors.New("ps broke"), StatusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inspector := &fakeInspector{count: tt.count, err: tt.err}
			o := newTestOrchestrator(t, Definition{ID: "x", Path: t.TempDir()}, nil, inspector)
			status, err := o.Status(context.Background(), "x")
			if err != nil {
				t.Fatalf("Status err=%v", err)
			}
			if status != tt.want {
				t.Fatalf("status=%s want %s", status, tt.want)
			}
		})
	}
}

func TestStatusIsIdempotent(t *testing.T) {
	inspector := &fakeInspector{count: 1}
	o := newTestOrchestrator(t, Definition{ID: "x", Path: t.TempDir()}, nil, inspector)

	for i := 0; i < 5; i++ {
		status, err := o.Status(context.Background(), "x")
		if err != nil {
			t.Fatalf("Status err=%v", err)
		}
		if status != StatusActive {
			t.Fatalf("call %d: status=%s want active", i, status)
		}
	}
	if inspector.calls != 5 {
		t.Fatalf("inspector calls=%d want 5 (no caching)", inspector.calls)
	}
}

func TestListDerivesStatusPerBot(t *testing.T) {
	inspector := &fakeInspector{count: 1}
	a := Definition{ID: "a", Name: "A", Symbol: "SOLUSDT", Interval: "15m", Path: t.TempDir()}
	b := Definition{ID: "b", Path: t.TempDir()}
	o := New(NewRegistry(a, b), &fakeRunner{}, inspector, time.Minute, zap.NewNop())

	list := o.List(context.Background())
	if len(list) != 2 {
		t.Fatalf("len=%d want 2", len(list))
	}
	if list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("order=%s,%s want a,b", list[0].ID, list[1].ID)
	}
	if list[0].Status != StatusActive {
		t.Fatalf("status=%s want active", list[0].Status)
	}
	if inspector.calls != 2 {
		t.Fatalf("inspector calls=%d want 2", inspector.calls)
	}
}

func TestGetReturnsDetail(t *testing.T) {
	def := Definition{ID: "x", Name: "X Bot", Symbol: "SOLUSDT", Interval: "15m", Path: t.TempDir()}
	o := newTestOrchestrator(t, def, nil, &fakeInspector{count: 0})

	detail, err := o.Get(context.Background(), "x")
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if detail.Name != "X Bot" || detail.Status != StatusInactive {
		t.Fatalf("detail=%+v", detail)
	}
	if detail.Balance != 100.0 {
		t.Fatalf("balance=%v want 100", detail.Balance)
	}
}
