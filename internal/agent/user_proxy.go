// internal/agent/user_proxy.go
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	gochat "aiupstart.com/go-chat"
	"aiupstart.com/go-chat/internal/llm"
)

// SendFunc delivers one user message and returns the assistant reply.
type SendFunc func(ctx context.Context, text string, onToken llm.StreamCallback) (string, error)

// UserProxyAgent relays a terminal user to the chat.
type UserProxyAgent struct {
	name            string
	in              io.Reader
	out             io.Writer
	defaultLanguage string
}

func NewUserProxyAgent(name string, in io.Reader, out io.Writer, defaultLanguage string) *UserProxyAgent {
	return &UserProxyAgent{name: name, in: in, out: out, defaultLanguage: defaultLanguage}
}

// Show prints an assistant message followed by its code blocks.
func (u *UserProxyAgent) Show(content string) {
	fmt.Fprintf(u.out, "[Assistant]: %s\n", content)
	u.showBlocks(content)
}

func (u *UserProxyAgent) showBlocks(content string) {
	for i, block := range gochat.ExtractCodeBlocks(content) {
		fmt.Fprintf(u.out, "--- code block %d (%s) ---\n%s", i+1, block.LanguageOr(u.defaultLanguage), block.Code)
		if !strings.HasSuffix(block.Code, "\n") {
			fmt.Fprintln(u.out)
		}
	}
}

// UserInputLoop reads lines until EOF, "/quit" or ctx is done, streaming
// each reply to out as it arrives.
func (u *UserProxyAgent) UserInputLoop(ctx context.Context, send SendFunc) error {
	scanner := bufio.NewScanner(u.in)
	for {
		fmt.Fprintf(u.out, "[%s]: ", u.name)
		if !scanner.Scan() {
			fmt.Fprintln(u.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		userInput := strings.TrimSpace(scanner.Text())
		if userInput == "" {
			continue
		}
		if userInput == "/quit" || userInput == "/exit" {
			return nil
		}

		fmt.Fprint(u.out, "[Assistant]: ")
		reply, err := send(ctx, userInput, func(token string) error {
			_, werr := fmt.Fprint(u.out, token)
			return werr
		})
		fmt.Fprintln(u.out)
		if err != nil {
			fmt.Fprintf(u.out, "[error]: %v\n", err)
			continue
		}
		u.showBlocks(reply)
	}
}
