package launch

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"codeberg.org/snonux/bag/internal/cli"
	"codeberg.org/snonux/bag/internal/testutil"
	"codeberg.org/snonux/bag/internal/topic"
)

type fixture struct {
	grammar *cli.Grammar
	runner  *testutil.MockRunner
	logs    *bytes.Buffer
	record  *Record
	merge   *Merge
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalog, err := topic.NewCatalog(
		topic.Descriptor{Shortcut: 'c', Description: "cameras", Topics: []string{"/cam/front", "/cam/down"}},
		topic.Descriptor{Shortcut: 'i', Description: "IMU", Topics: []string{"/imu"}},
		topic.Descriptor{Shortcut: 'x', Description: "placeholder"},
	)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	f := &fixture{runner: &testutil.MockRunner{}, logs: &bytes.Buffer{}}
	logger := log.New(f.logs)
	f.record = NewRecord("rosbag", f.runner, logger)
	f.merge = NewMerge("bagmerge", f.runner, logger)

	f.grammar, err = cli.NewGrammar(cli.Program{Name: "bag", Version: "test"}, catalog,
		cli.RecordSpec(f.record.Factory(), cli.DefaultDuration),
		cli.MergeSpec(f.merge.Factory()),
	)
	if err != nil {
		t.Fatalf("NewGrammar failed: %v", err)
	}
	return f
}

func (f *fixture) resolve(t *testing.T, args ...string) *cli.Invocation {
	t.Helper()

	result, err := f.grammar.Resolve(args)
	if err != nil {
		t.Fatalf("Resolve(%v) failed: %v", args, err)
	}
	if result.Kind != cli.ResultInvocation {
		t.Fatalf("Resolve(%v) returned %s", args, result.Kind)
	}
	return result.Invocation
}

func TestRecordArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "defaults record all topics",
			args: []string{"record"},
			want: []string{"record", "--split", "--duration=15", "/cam/front", "/cam/down", "/imu"},
		},
		{
			name: "no split",
			args: []string{"record", "--no-split", "-i"},
			want: []string{"record", "/imu"},
		},
		{
			name: "duration and compression",
			args: []string{"record", "--duration", "60", "--lz4", "-c"},
			want: []string{"record", "--split", "--duration=60", "--lz4", "/cam/front", "/cam/down"},
		},
		{
			name: "bz2 wins over lz4",
			args: []string{"record", "--bz2", "--lz4", "-i"},
			want: []string{"record", "--split", "--duration=15", "--bz2", "/imu"},
		},
		{
			name: "sanitized name",
			args: []string{"record", "--name", "pool test", "-i", "-c"},
			want: []string{"record", "--split", "--duration=15", "-o", "pool_test", "/cam/front", "/cam/down", "/imu"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			got, err := f.record.Args(f.resolve(t, tt.args...))
			if err != nil {
				t.Fatalf("Args failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecordArgs_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"zero duration", []string{"record", "--duration", "0"}, "invalid split duration"},
		{"negative duration", []string{"record", "--duration=-5"}, "invalid split duration"},
		{"unusable name", []string{"record", "--name", "..", "-i"}, "invalid output name"},
		{"topic without streams", []string{"record", "-x"}, "no topics to record"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.record.Args(f.resolve(t, tt.args...))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Expected error containing %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestRecordArgs_DurationIgnoredWithoutSplit(t *testing.T) {
	f := newFixture(t)
	if _, err := f.record.Args(f.resolve(t, "record", "--no-split", "--duration", "0", "-i")); err != nil {
		t.Errorf("Duration should not be validated when not splitting: %v", err)
	}
}

func TestRecordRun(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(t.TempDir(), "new", "bags")

	inv := f.resolve(t, "record", "-i", dir)
	cmd, err := inv.Command.Factory()
	if err != nil {
		t.Fatalf("Factory failed: %v", err)
	}
	if err := cmd.Run(context.Background(), inv); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	testutil.AssertFileExists(t, dir)

	call := f.runner.LastCall()
	if call.Dir != dir {
		t.Errorf("Expected to run in %s, got %s", dir, call.Dir)
	}
	if call.String() != "rosbag record --split --duration=15 /imu" {
		t.Errorf("Unexpected command line: %s", call.String())
	}
	if !strings.Contains(f.logs.String(), "recording") {
		t.Errorf("Expected recording log, got %q", f.logs.String())
	}
}

func TestRecordRun_RunnerError(t *testing.T) {
	f := newFixture(t)
	errExit := errors.New("exit status 1")
	f.runner.Errors = map[string]error{"rosbag": errExit}

	err := f.record.Run(context.Background(), f.resolve(t, "record", t.TempDir()))
	if !errors.Is(err, errExit) {
		t.Errorf("Expected runner error, got %v", err)
	}
}

func TestFactories_Unconfigured(t *testing.T) {
	if _, err := NewRecord("", &testutil.MockRunner{}, nil).Factory()(); err == nil {
		t.Error("Expected error for record without program")
	}
	if _, err := NewRecord("rosbag", nil, nil).Factory()(); err == nil {
		t.Error("Expected error for record without runner")
	}
	if _, err := NewMerge("", &testutil.MockRunner{}, nil).Factory()(); err == nil {
		t.Error("Expected error for merge without program")
	}
	if _, err := NewMerge("bagmerge", nil, nil).Factory()(); err == nil {
		t.Error("Expected error for merge without runner")
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name     string
		inv      *cli.Invocation
		expected string
		wantErr  bool
	}{
		{"default", &cli.Invocation{}, "merged.bag", false},
		{"plain name", &cli.Invocation{Name: "dive", HasName: true}, "dive.bag", false},
		{"name with extension", &cli.Invocation{Name: "dive.bag", HasName: true}, "dive.bag", false},
		{"path separators", &cli.Invocation{Name: "a/b", HasName: true}, "a_b.bag", false},
		{"empty name", &cli.Invocation{Name: "", HasName: true}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputName(tt.inv)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("OutputName failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("OutputName() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestFindBags(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateTestBags(t, dir, "b_2.bag", "a_1.bag", "merged.bag")
	testutil.CreateTestFile(t, filepath.Join(dir, "notes.txt"), []byte("not a bag"))

	bags, err := FindBags(dir, "merged.bag")
	if err != nil {
		t.Fatalf("FindBags failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a_1.bag", "b_2.bag"}, bags); diff != "" {
		t.Errorf("FindBags mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeRun(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	testutil.CreateTestBags(t, dir, "run_0.bag", "run_1.bag")

	inv := f.resolve(t, "merge", "-c", "--name", "dive", dir)
	if err := f.merge.Run(context.Background(), inv); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	call := f.runner.LastCall()
	want := "bagmerge -o dive.bag -t /cam/front -t /cam/down run_0.bag run_1.bag"
	if call.String() != want {
		t.Errorf("Unexpected command line:\n got: %s\nwant: %s", call.String(), want)
	}
	if call.Dir != dir {
		t.Errorf("Expected to run in %s, got %s", dir, call.Dir)
	}
}

func TestMergeRun_TopicWithoutStreams(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	testutil.CreateTestBags(t, dir, "run_0.bag")

	err := f.merge.Run(context.Background(), f.resolve(t, "merge", "-x", dir))
	if err == nil || !strings.Contains(err.Error(), "no topics to merge") {
		t.Errorf("Expected 'no topics to merge' error, got %v", err)
	}
	if len(f.runner.Calls) != 0 {
		t.Errorf("Runner should not be called, got %v", f.runner.Calls)
	}
}

func TestMergeRun_NoBags(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()

	err := f.merge.Run(context.Background(), f.resolve(t, "merge", dir))
	if err == nil || !strings.Contains(err.Error(), "no bags found") {
		t.Errorf("Expected 'no bags found' error, got %v", err)
	}
	if len(f.runner.Calls) != 0 {
		t.Error("Runner should not be called without bags")
	}
}

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	r := &ExecRunner{Stdout: &stdout, Stderr: &stderr}

	if err := r.Run(context.Background(), dir, "sh", "-c", "echo ok"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != "ok" {
		t.Errorf("Expected ok, got %q", stdout.String())
	}

	err := r.Run(context.Background(), dir, "sh", "-c", "exit 3")
	if err == nil || !strings.HasPrefix(err.Error(), "sh:") {
		t.Errorf("Expected wrapped exit error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx, dir, "sh", "-c", "sleep 5"); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
