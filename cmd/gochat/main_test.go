package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = "Here:\n```js\nconsole.log(1);\n```\nand\n```\n# filename: hello.py\nprint('hi')\n```\nunclosed ```go\nx"

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExtract_JSON(t *testing.T) {
	out, err := runCmd(t, sample, "extract")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	var blocks []extractedBlock
	if err := json.Unmarshal([]byte(out), &blocks); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Language != "js" || blocks[0].Code != "console.log(1);\n" {
		t.Errorf("block 0 = %+v", blocks[0])
	}
	if blocks[1].Language != "" || blocks[1].Filename != "hello.py" {
		t.Errorf("block 1 = %+v", blocks[1])
	}
}

func TestExtract_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.md")
	if err := os.WriteFile(path, []byte("no code here"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := runCmd(t, "", "extract", path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("output = %q, want []", out)
	}
}

func TestExtract_OutDir(t *testing.T) {
	dir := t.TempDir()
	out, err := runCmd(t, sample, "extract", "--out", dir)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("wrote %d files: %q", len(lines), out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "hello.py"))
	if err != nil {
		t.Fatalf("read hello.py: %v", err)
	}
	if !strings.Contains(string(data), "print('hi')") {
		t.Errorf("hello.py = %q", data)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	if _, err := runCmd(t, "", "extract", filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Error("expected error for missing file")
	}
}
