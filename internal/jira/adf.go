package jira

import "strings"

// ADFNode is one node of an Atlassian Document Format tree. ADF is the
// rich-text format Jira uses for descriptions and comments; we only
// care about extracting readable text from it.
type ADFNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text,omitempty"`
	Content []ADFNode `json:"content,omitempty"`
}

// ADFToText flattens an ADF tree into plain text. Text nodes contribute
// their text, hardBreak nodes a newline, and block-level containers
// (paragraph, heading, listItem) emit a trailing newline when they
// produced any output. Other containers are traversed transparently.
func ADFToText(doc *ADFNode) string {
	if doc == nil {
		return ""
	}

	var chunks []string
	walkADF(*doc, &chunks)

	text := strings.Join(chunks, "")
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " \t")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func walkADF(node ADFNode, chunks *[]string) {
	switch node.Type {
	case "text":
		if node.Text != "" {
			*chunks = append(*chunks, node.Text)
		}
	case "hardBreak":
		*chunks = append(*chunks, "\n")
	case "paragraph", "heading", "listItem":
		before := len(*chunks)
		for _, child := range node.Content {
			walkADF(child, chunks)
		}
		if len(*chunks) > before {
			*chunks = append(*chunks, "\n")
		}
	default:
		for _, child := range node.Content {
			walkADF(child, chunks)
		}
	}
}
