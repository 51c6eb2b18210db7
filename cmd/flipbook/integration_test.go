package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/csheth/flipbook/internal/tuitest"
)

func TestFlipbookTurnsPagesAndSavesCursor(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	t.Parallel()

	cmdDir := moduleDir(t)
	work := t.TempDir()
	cfgPath := writeBook(t, work, 10)
	statePath := filepath.Join(work, "state.json")

	binary := buildBinary(t, cmdDir)
	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "--no-alt-screen", "--no-animation", "--state", statePath, cfgPath},
		Dir:     work,
		Env:     []string{"FLIPBOOK_LOG=" + filepath.Join(work, "flipbook.log")},
		Width:   160,
		Height:  40,
		Steps: []tuitest.Step{
			{Delay: time.Second},
			{Input: tuitest.KeyRight},
			{Delay: 300 * time.Millisecond},
			{Input: tuitest.KeyRight},
			{Delay: time.Second},
			{Input: []byte("q")},
		},
		Timeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if _, ok := rec.LastFrameContaining("Pages 4-5 / 10"); !ok {
		final, _ := rec.FinalFrame()
		t.Fatalf("expected the (4,5) spread, final frame:\n%s", final.Plain)
	}
	if _, ok := rec.LastFrameContaining("#page=4"); !ok {
		t.Fatal("expected the resume URL to carry the cursor")
	}

	data, err := os.ReadFile(statePath)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	var state map[string]string
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if got := state["flipbook:Test Magazine:page"]; got != "4" {
		t.Fatalf("saved cursor mismatch: got %q want 4 (%v)", got, state)
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	tmp := t.TempDir()
	name := "flipbook-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, strings.TrimSpace(string(output)))
	}
	return binPath
}
