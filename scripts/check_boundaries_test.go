package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, root string, rel string, body string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCollectViolationsFlagsLayerLeaks(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	writeSource(t, dir, "contexts/event-voting/voting-lottery/domain/services/ok.go",
		"package services\n\nimport (\n\t\"sort\"\n\n\t\"lanvote/contexts/event-voting/voting-lottery/domain/entities\"\n)\n\nvar _ = sort.Ints\nvar _ entities.Candidate\n")
	writeSource(t, dir, "contexts/event-voting/voting-lottery/domain/services/bad.go",
		"package services\n\nimport \"gorm.io/gorm\"\n\nvar _ *gorm.DB\n")
	writeSource(t, dir, "contexts/event-voting/voting-lottery/application/commands/flight.go",
		"package commands\n\nimport \"golang.org/x/sync/singleflight\"\n\nvar _ singleflight.Group\n")
	writeSource(t, dir, "contexts/event-voting/voting-lottery/application/commands/leak.go",
		"package commands\n\nimport \"lanvote/contexts/event-voting/voting-lottery/adapters/memory\"\n\nvar _ = memory.NewStore\n")
	writeSource(t, dir, "contexts/event-voting/voting-lottery/application/commands/cross.go",
		"package commands\n\nimport \"lanvote/contexts/identity-access/admin-auth/ports\"\n\nvar _ ports.Clock\n")

	violations := collectViolations("contexts")
	byFile := map[string]int{}
	for _, v := range violations {
		byFile[filepath.Base(v.File)]++
	}
	if byFile["ok.go"] != 0 || byFile["flight.go"] != 0 {
		t.Fatalf("unexpected violations: %+v", violations)
	}
	if byFile["bad.go"] == 0 || byFile["leak.go"] == 0 || byFile["cross.go"] == 0 {
		t.Fatalf("expected violations for bad.go, leak.go and cross.go, got %+v", violations)
	}
}

func TestIsStdlib(t *testing.T) {
	cases := map[string]bool{
		"context":             true,
		"net/http":            true,
		"gorm.io/gorm":        false,
		"lanvote/internal/db": false,
	}
	for path, want := range cases {
		if got := isStdlib(path); got != want {
			t.Fatalf("isStdlib(%q) = %v, want %v", path, got, want)
		}
	}
}
