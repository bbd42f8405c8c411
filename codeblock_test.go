package gochat

import (
	"strings"
	"testing"
)

func TestCodeBlock_LanguageOr(t *testing.T) {
	if got := (CodeBlock{Code: "x"}).LanguageOr(DefaultLanguage); got != "python" {
		t.Errorf("LanguageOr() = %q, want python", got)
	}
	b := CodeBlock{Language: "go"}
	if !b.HasLanguage() || b.LanguageOr(DefaultLanguage) != "go" {
		t.Errorf("tagged block lost its language: %#v", b)
	}
}

func TestCodeBlock_Filename(t *testing.T) {
	tests := []struct {
		name       string
		block      CodeBlock
		want       string
		wantPrefix string
		wantSuffix string
	}{
		{
			name:  "slash comment",
			block: CodeBlock{Language: "go", Code: "// filename: main.go\npackage main\n"},
			want:  "main.go",
		},
		{
			name:  "hash comment",
			block: CodeBlock{Language: "python", Code: "# filename: app.py\nprint(1)\n"},
			want:  "app.py",
		},
		{
			name:       "hashed go",
			block:      CodeBlock{Language: "go", Code: "package main\n"},
			wantPrefix: "code_",
			wantSuffix: ".go",
		},
		{
			name:       "untagged defaults to python",
			block:      CodeBlock{Code: "print(1)\n"},
			wantPrefix: "code_",
			wantSuffix: ".py",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.block.Filename()
			if tt.want != "" && got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
			if !strings.HasPrefix(got, tt.wantPrefix) || !strings.HasSuffix(got, tt.wantSuffix) {
				t.Errorf("Filename() = %q, want %s*%s", got, tt.wantPrefix, tt.wantSuffix)
			}
		})
	}
}

func TestCodeBlock_FilenameStable(t *testing.T) {
	b := CodeBlock{Language: "js", Code: "console.log(1);\n"}
	if b.Filename() != b.Filename() {
		t.Error("hashed filename is not stable")
	}
	if len(b.Filename()) != len("code_12345678.js") {
		t.Errorf("unexpected filename %q", b.Filename())
	}
}

func TestLanguageExt(t *testing.T) {
	tests := map[string]string{
		"Go":         "go",
		"python":     "py",
		"shell":      "sh",
		"JavaScript": "js",
		"ts":         "ts",
		"cobol":      "txt",
	}
	for lang, want := range tests {
		if got := LanguageExt(lang); got != want {
			t.Errorf("LanguageExt(%q) = %q, want %q", lang, got, want)
		}
	}
}

func TestMessage_CodeBlocks(t *testing.T) {
	content := fence + "go\nx\n" + fence
	if got := NewMessage(RoleUser, content).CodeBlocks(); got != nil {
		t.Errorf("user message returned blocks: %#v", got)
	}
	if got := NewMessage(RoleAssistant, content).CodeBlocks(); len(got) != 1 {
		t.Errorf("assistant message returned %d blocks, want 1", len(got))
	}
}
