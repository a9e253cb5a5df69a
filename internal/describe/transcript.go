package describe

import (
	"bufio"
	"os"
	"strings"

	json "github.com/goccy/go-json"
)

// transcriptMessage represents one line of a Claude Code transcript JSONL
// file. Content can be a plain string or an array of typed blocks.
type transcriptMessage struct {
	Type    string `json:"type"`
	Message struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	} `json:"message"`
}

// LastAssistantMessage reads the transcript at path and returns the text
// of the last assistant-authored message, or "" if the file is missing,
// unreadable, or contains no assistant text.
func LastAssistantMessage(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = strings.Replace(path, "~", home, 1)
		}
	}

	file, err := os.Open(path) // #nosec G304 -- path comes from the hook input
	if err != nil {
		return ""
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// Increase buffer size for large messages
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var last string
	for scanner.Scan() {
		var msg transcriptMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}

		if msg.Type != "assistant" && msg.Message.Role != "assistant" {
			continue
		}
		if text := extractTextContent(msg.Message.Content); text != "" {
			last = text
		}
	}

	return strings.TrimSpace(last)
}

// extractTextContent extracts text from message content, which is either
// a string or an array of {type, text} blocks.
func extractTextContent(content any) string {
	switch v := content.(type) {
	case string:
		return v
	case []interface{}:
		var texts []string
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				if m["type"] == "text" {
					if text, ok := m["text"].(string); ok {
						texts = append(texts, text)
					}
				}
			}
		}
		return strings.Join(texts, "\n")
	}
	return ""
}
