package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGo(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestRunCleanPackage(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "q.go", "package q\n\nconst QOne = `--sql 11111111-1111-4111-8111-111111111111\nselect 1;`\n\nconst Label = \"not sql\"\n")
	var stderr bytes.Buffer
	if code := run([]string{dir}, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
}

func TestRunReportsViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing marker",
			body: "package q\n\nconst QBad = `select * from campaigns;`\n",
			want: "missing or invalid --sql <uuid> marker (QBad)",
		},
		{
			name: "uppercase uuid",
			body: "package q\n\nconst QBad = `--sql 11111111-1111-4111-8111-AAAAAAAAAAAA\nselect 1;`\n",
			want: "missing or invalid",
		},
		{
			name: "duplicate marker",
			body: "package q\n\nconst (\n\tQA = `--sql 22222222-2222-4222-8222-222222222222\nselect 1;`\n\tQB = `--sql 22222222-2222-4222-8222-222222222222\nselect 2;`\n)\n",
			want: "already used by QA",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeGo(t, dir, "q.go", tt.body)
			var stderr bytes.Buffer
			if code := run([]string{dir}, &stderr); code != 1 {
				t.Fatalf("run() = %d, want 1", code)
			}
			if !strings.Contains(stderr.String(), tt.want) {
				t.Fatalf("stderr %q does not mention %q", stderr.String(), tt.want)
			}
		})
	}
}

func TestRunSkipsTestFiles(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "q_test.go", "package q\n\nconst fixture = `select 1;`\n")
	var stderr bytes.Buffer
	if code := run([]string{dir}, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
}

func TestRepositoryQueriesAreMarked(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"../../sqlinline"}, &stderr); code != 0 {
		t.Fatalf("sqlinline has violations:\n%s", stderr.String())
	}
}
