// Package agent runs the interactive assistant: a chat session wired to
// the bookkeeping tool registry so the model can inspect and, in write
// mode, update the open ledger.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"

	"github.com/bookwright-dev/bookwright/internal/tools"
)

const systemInstruction = `You are a bookkeeping assistant for a personal
double-entry ledger. Use the provided tools to answer questions about
accounts, balances and transactions. Amounts are decimal strings. When a
tool returns an error message, relay it to the user rather than guessing.`

// Agent is the interactive assistant over a tool registry.
type Agent struct {
	w       io.Writer
	r       *bufio.Reader
	model   string
	decls   []*genai.FunctionDeclaration
	library tools.Library
	chat    *genai.Chat
	send    sendFunc
}

// sendFunc is the chat send operation, held as a field so tests can
// exercise the tool-call loop without a live session.
type sendFunc func(ctx context.Context, parts ...*genai.Part) (*genai.GenerateContentResponse, error)

// New creates an Agent writing its output to w and reading user input
// from r.
func New(w io.Writer, r io.Reader, model string, functions []tools.Function) *Agent {
	return &Agent{
		w:       w,
		r:       bufio.NewReader(r),
		model:   model,
		decls:   tools.NewDeclarations(functions),
		library: tools.NewLibrary(functions),
	}
}

// Start creates the chat session with the tool declarations attached.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		Tools:             []*genai.Tool{{FunctionDeclarations: a.decls}},
	}
	chat, err := client.Chats.Create(ctx, a.model, config, nil)
	if err != nil {
		return fmt.Errorf("creating chat session: %w", err)
	}
	a.chat = chat
	a.send = chat.Send
	return nil
}

// maxToolRounds bounds consecutive tool calls within one exchange.
const maxToolRounds = 10

// Ask sends parts to the model, resolving tool calls until it produces a
// text answer or exhausts the tool-call budget.
func (a *Agent) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	for round := 0; ; round++ {
		resp, err := a.send(ctx, parts...)
		if err != nil {
			return nil, err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return nil, fmt.Errorf("no response from model %s", a.model)
		}
		part0 := resp.Candidates[0].Content.Parts[0]
		if part0.FunctionCall == nil {
			return resp.Candidates[0].Content, nil
		}
		if round >= maxToolRounds {
			return nil, fmt.Errorf("model exceeded %d consecutive tool calls without answering", maxToolRounds)
		}
		// Feed the tool result back until we get a text answer.
		fresp := a.library(ctx, part0.FunctionCall)
		parts = []*genai.Part{{FunctionResponse: fresp}}
	}
}

const prompt = "bookwright> "

// Run starts the interactive REPL session. Prompts given up front are
// consumed before reading from the user.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to bookwright assist. Type 'bye' to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		content, err := a.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, content.Parts[0].Text)
	}
}
