// Package dto defines data transfer objects for the OpenAI Assistants API responses.
package dto

// Thread represents a conversation thread resource.
type Thread struct {
	ID string `json:"id"`
}

// Run represents an asynchronous run resource tied to a thread.
type Run struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	LastError *RunError `json:"last_error,omitempty"`
}

// RunError carries the failure detail of a run in a terminal error state.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Message represents a single message in a thread.
type Message struct {
	ID        string           `json:"id"`
	Role      string           `json:"role"`
	CreatedAt int64            `json:"created_at"`
	Content   []MessageContent `json:"content"`
}

// MessageContent is one content block of a message; only text blocks are used.
type MessageContent struct {
	Type string      `json:"type"`
	Text MessageText `json:"text"`
}

// MessageText holds the text payload of a content block.
type MessageText struct {
	Value string `json:"value"`
}

// MessageListing represents the list response of a thread's messages,
// ordered newest first.
type MessageListing struct {
	Data []Message `json:"data"`
}
