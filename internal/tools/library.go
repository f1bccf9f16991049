// Package tools defines the operations advertised to the tool-calling
// client: declarations with typed argument schemas, and a dispatch
// library that routes calls and renders results as text.
package tools

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Function is one callable tool.
type Function interface {
	Declaration() *genai.FunctionDeclaration
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// Func is a Function backed by a plain handler. Domain failures come back
// as descriptive text, never as protocol faults.
type Func struct {
	Decl *genai.FunctionDeclaration
	Run  func(ctx context.Context, args map[string]any) string
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }

func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     f.Decl.Name,
		Response: map[string]any{"output": f.Run(ctx, args)},
	}
}

// Library dispatches a function call to the matching registered tool.
type Library func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse

// NewLibrary builds a Library over a fixed set of tools.
func NewLibrary(functions []Function) Library {
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		for _, f := range functions {
			if f.Declaration().Name == call.Name {
				return f.Call(ctx, call.ID, call.Args)
			}
		}
		return &genai.FunctionResponse{
			ID:   call.ID,
			Name: call.Name,
			Response: map[string]any{
				"error": fmt.Sprintf("unknown tool %s", call.Name),
			},
		}
	}
}

// NewDeclarations collects the declarations of all registered tools.
func NewDeclarations(functions []Function) []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, 0, len(functions))
	for _, f := range functions {
		result = append(result, f.Declaration())
	}
	return result
}
