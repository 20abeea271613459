package domain

// Invocation is one incoming tool call: name, raw arguments and the
// caller-supplied correlation token. It lives for a single dispatch cycle
// and is never persisted.
type Invocation struct {
	ID   string         `json:"id"`
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// Reply pairs a Result with the Invocation ID it answers.
type Reply struct {
	ID     string `json:"id"`
	Result Result `json:"result"`
}
