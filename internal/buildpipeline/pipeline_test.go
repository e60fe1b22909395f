package buildpipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pasclang/internal/buildpipeline"
	"pasclang/internal/driver"
)

func TestNormalizeOptLevel(t *testing.T) {
	cases := []struct {
		in      int
		out     int
		clamped bool
	}{
		{0, 0, false},
		{1, 1, false},
		{2, 1, true},
		{9, 1, true},
		{-1, 0, true},
	}
	for _, tc := range cases {
		out, clamped := buildpipeline.NormalizeOptLevel(tc.in)
		if out != tc.out || clamped != tc.clamped {
			t.Errorf("NormalizeOptLevel(%d) = %d, %v; want %d, %v", tc.in, out, clamped, tc.out, tc.clamped)
		}
	}
}

func TestCompileProducesIR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.pp")
	if err := os.WriteFile(path, []byte("program\nbegin writeln(42) end.\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	events := make(chan buildpipeline.Event, 64)
	result, err := buildpipeline.Compile(context.Background(), &buildpipeline.Request{
		InputPath:      path,
		MaxDiagnostics: 100,
		Progress:       buildpipeline.ChannelSink{Ch: events},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.Contains(result.IR, "define void @main()") {
		t.Fatalf("IR missing main:\n%s", result.IR)
	}
	if !result.Timings.Has(buildpipeline.StageParse) || !result.Timings.Has(buildpipeline.StageEmit) {
		t.Error("missing stage timings")
	}

	close(events)
	var stages []buildpipeline.Stage
	for ev := range events {
		if ev.Status == buildpipeline.StatusDone {
			stages = append(stages, ev.Stage)
		}
	}
	want := []buildpipeline.Stage{buildpipeline.StageParse, buildpipeline.StageCheck, buildpipeline.StageEmit}
	if len(stages) != len(want) {
		t.Fatalf("stages = %v", stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("stage order = %v", stages)
		}
	}
}

func TestCompileTypeErrorCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.pp")
	if err := os.WriteFile(path, []byte("program\nbegin writeln(true) end.\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := buildpipeline.Compile(context.Background(), &buildpipeline.Request{
		InputPath:      path,
		MaxDiagnostics: 100,
	})
	var failure *driver.Failure
	if !errors.As(err, &failure) || failure.Category != driver.TypeError {
		t.Fatalf("err = %v", err)
	}
}

func TestTimings(t *testing.T) {
	var timings buildpipeline.Timings
	timings.Set(buildpipeline.StageParse, 2*time.Millisecond)
	timings.Set(buildpipeline.StageLink, 3*time.Millisecond)
	if timings.Total() != 5*time.Millisecond {
		t.Fatalf("total = %v", timings.Total())
	}
	if timings.Has(buildpipeline.StageBuild) {
		t.Fatal("unexpected stage")
	}
}
