package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/LanceSports/LanceSports-sub000/internal/usecase"
)

func TestRootCommand_ListsSubcommands(t *testing.T) {
	root := newRootCommand()
	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	if !names["leagues"] || !names["refresh"] {
		t.Fatalf("expected leagues and refresh commands, got %v", names)
	}
}

func TestLeaguesCommand_RejectsUnknownMode(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"leagues", "--mode", "sometimes"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	if err := root.Execute(); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	if err := writeReport(&buf, false, usecase.RefreshReport{RunID: "run-1"}); err != nil {
		t.Fatalf("write report: %v", err)
	}
	if !strings.Contains(buf.String(), `"RunID":"run-1"`) {
		t.Fatalf("unexpected report output: %s", buf.String())
	}
}
