package domain

import "strings"

type ChatMessage struct {
	Role    ChatRole
	Content string
}

func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: ChatUser, Content: content}
}

func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: ChatAssistant, Content: content}
}

// CloneHistory returns an independent copy of h.
func CloneHistory(h []ChatMessage) []ChatMessage {
	if h == nil {
		return nil
	}
	out := make([]ChatMessage, len(h))
	copy(out, h)
	return out
}

// Transcript renders a history as alternating speaker blocks.
func Transcript(h []ChatMessage, userLabel, assistantLabel string) string {
	var b strings.Builder
	for i, m := range h {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if m.Role == ChatUser {
			b.WriteString(userLabel)
		} else {
			b.WriteString(assistantLabel)
		}
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

// SubTopicCount is the number of sub-topic suggestions offered per topic.
const SubTopicCount = 10

type SubTopic struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s SubTopic) Valid() bool {
	return strings.TrimSpace(s.Title) != "" && strings.TrimSpace(s.Description) != ""
}

// Citation is a source referenced by generated content.
type Citation struct {
	Title string
	URL   string
}

// GeneratedContent is the final article plus the sources it cites.
type GeneratedContent struct {
	Text      string
	Citations []Citation
}
