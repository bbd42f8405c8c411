// Package render turns chat messages into HTML: markdown prose through
// goldmark and fenced code through chroma.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	gochat "aiupstart.com/go-chat"
	"aiupstart.com/go-chat/internal/utils"
	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	md              goldmark.Markdown
	style           *chroma.Style
	formatter       *chromahtml.Formatter
	defaultLanguage string
}

// New builds a renderer. defaultLanguage highlights untagged blocks;
// styleName picks a chroma style and falls back to chroma's default.
func New(defaultLanguage, styleName string) *Renderer {
	if defaultLanguage == "" {
		defaultLanguage = gochat.DefaultLanguage
	}
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		style:           styles.Get(styleName),
		formatter:       chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4)),
		defaultLanguage: defaultLanguage,
	}
}

// Message renders one chat message. User text is escaped verbatim;
// assistant text is split into prose and highlighted code blocks.
func (r *Renderer) Message(msg gochat.Message) template.HTML {
	if msg.Role != gochat.RoleAssistant {
		return template.HTML(template.HTMLEscapeString(msg.Content))
	}

	var buf bytes.Buffer
	for _, seg := range gochat.SplitSegments(msg.Content) {
		if !seg.IsCode() {
			buf.WriteString(string(r.Markdown(seg.Prose)))
			continue
		}
		code, err := r.Code(*seg.Block)
		if err != nil {
			utils.Logger.Warn().Err(err).Str("module", "render").Msg("Highlighting failed, falling back to plain code")
			code = plainCode(*seg.Block)
		}
		buf.WriteString(string(code))
	}
	return template.HTML(buf.String())
}

// Markdown renders prose. Raw HTML in the source is omitted.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		utils.Logger.Warn().Err(err).Str("module", "render").Msg("Markdown conversion failed")
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(buf.String())
}

// Code highlights one block using its language, or the default language
// when the fence had none. Unknown languages render as plain text.
func (r *Renderer) Code(block gochat.CodeBlock) (template.HTML, error) {
	lang := block.LanguageOr(r.defaultLanguage)
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, block.Code)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", lang, err)
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<div class="code-block" data-language="%s">`, template.HTMLEscapeString(lang))
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return "", fmt.Errorf("format %s: %w", lang, err)
	}
	buf.WriteString("</div>")
	return template.HTML(buf.String()), nil
}

func plainCode(block gochat.CodeBlock) template.HTML {
	return template.HTML(`<div class="code-block"><pre><code>` + template.HTMLEscapeString(block.Code) + `</code></pre></div>`)
}
