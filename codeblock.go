package gochat

import (
	"crypto/md5"
	"fmt"
	"regexp"
	"strings"
)

// DefaultLanguage is what the UI highlights a block as when the fence carries no tag.
const DefaultLanguage = "python"

// CodeBlock represents a fenced code snippet extracted from markdown text.
type CodeBlock struct {
	Language string `json:"language,omitempty"` // empty when the fence had no tag
	Code     string `json:"code"`
}

// HasLanguage reports whether the opening fence carried a language tag.
func (b CodeBlock) HasLanguage() bool {
	return b.Language != ""
}

// LanguageOr returns the block language, or def when the fence had none.
func (b CodeBlock) LanguageOr(def string) string {
	if b.Language == "" {
		return def
	}
	return b.Language
}

var filenameCommentRe = regexp.MustCompile(`(?m)^\s*(?://|#)\s*filename:\s*(\S+)\s*$`)

// Filename returns the name a "filename:" comment inside the code asks for,
// falling back to a name derived from a hash of the code.
func (b CodeBlock) Filename() string {
	if m := filenameCommentRe.FindStringSubmatch(b.Code); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	hash := fmt.Sprintf("%x", md5.Sum([]byte(b.Code)))[:8]
	return fmt.Sprintf("code_%s.%s", hash, LanguageExt(b.LanguageOr(DefaultLanguage)))
}

// LanguageExt maps programming languages to their typical file extensions.
func LanguageExt(lang string) string {
	switch strings.ToLower(lang) {
	case "go", "golang":
		return "go"
	case "python", "py":
		return "py"
	case "bash", "shell", "sh", "zsh":
		return "sh"
	case "javascript", "js":
		return "js"
	case "typescript", "ts":
		return "ts"
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "html":
		return "html"
	case "css":
		return "css"
	case "sql":
		return "sql"
	case "rust", "rs":
		return "rs"
	case "java":
		return "java"
	case "c":
		return "c"
	case "cpp", "c++":
		return "cpp"
	case "markdown", "md":
		return "md"
	default:
		return "txt"
	}
}
