package domain

import "fmt"

// BlockKindText is the only content block kind this server emits.
const BlockKindText = "text"

// Block is a single unit of tool output.
type Block struct {
	Kind string `json:"type"`
	Text string `json:"text"`
}

// Result is the uniform envelope wrapping every tool's output.
// Every dispatch, success or failure, produces exactly one Result;
// the transport never sees an unhandled fault.
type Result struct {
	Content []Block `json:"content"`
	IsError bool    `json:"isError,omitempty"`
}

// TextResult wraps plain text in a success envelope.
func TextResult(text string) Result {
	return Result{
		Content: []Block{{Kind: BlockKindText, Text: text}},
	}
}

// ErrorResult wraps a failure in an error envelope. The failure kind is
// embedded in the text so MCP clients can distinguish failure classes
// without a side channel.
func ErrorResult(kind FailureKind, msg string) Result {
	return Result{
		Content: []Block{{Kind: BlockKindText, Text: fmt.Sprintf("%s: %s", kind, msg)}},
		IsError: true,
	}
}

// Errorf is ErrorResult with formatting.
func Errorf(kind FailureKind, format string, args ...any) Result {
	return ErrorResult(kind, fmt.Sprintf(format, args...))
}

// Text returns the concatenated text of all content blocks.
func (r Result) Text() string {
	switch len(r.Content) {
	case 0:
		return ""
	case 1:
		return r.Content[0].Text
	}
	var out string
	for i, b := range r.Content {
		if i > 0 {
			out += "\n"
		}
		out += b.Text
	}
	return out
}
