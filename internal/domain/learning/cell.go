package learning

import (
	"encoding/json"
	"strings"
)

const (
	CellExplanation = "explanation"
	CellMarkdown    = "markdown"
	CellCode        = "code"
	CellSteps       = "steps"
	CellVideo       = "video"
	CellImage       = "image"
	CellDiagram     = "diagram"
	CellSeparator   = "separator"
	CellResource    = "resource"
)

var cellTypes = map[string]bool{
	CellExplanation: true,
	CellMarkdown:    true,
	CellCode:        true,
	CellSteps:       true,
	CellVideo:       true,
	CellImage:       true,
	CellDiagram:     true,
	CellSeparator:   true,
	CellResource:    true,
}

func IsCellType(t string) bool { return cellTypes[t] }

// Cell is one ordered unit of submodule content. Content is kept as raw JSON
// because its shape depends on Type: a string for explanation/markdown/code,
// a string list for steps, an object for media and resources.
type Cell struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Content  json.RawMessage `json:"content"`
	Title    string          `json:"title,omitempty"`
	Language string          `json:"language,omitempty"`
	Meta     map[string]any  `json:"meta,omitempty"`
}

// HasContent reports whether the payload is present and not JSON null.
func (c Cell) HasContent() bool {
	s := strings.TrimSpace(string(c.Content))
	return s != "" && s != "null"
}

// Text renders the payload as plain text: strings are unquoted, string lists are
// joined by newlines and anything else is returned as compact JSON.
func (c Cell) Text() string {
	if !c.HasContent() {
		return ""
	}
	var s string
	if err := json.Unmarshal(c.Content, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(c.Content, &list); err == nil {
		return strings.Join(list, "\n")
	}
	return strings.TrimSpace(string(c.Content))
}

// TextContent marshals a string payload.
func TextContent(s string) json.RawMessage {
	raw, _ := json.Marshal(s)
	return raw
}

// ListContent marshals a string list payload.
func ListContent(items []string) json.RawMessage {
	if items == nil {
		items = []string{}
	}
	raw, _ := json.Marshal(items)
	return raw
}
