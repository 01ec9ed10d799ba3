// Package models contains data types and constants for the promptdeck backend API.
package models

// Default backend routes
const (
	DefaultBaseURL          = "http://localhost:3000"
	PathConversation        = "/api/conversation"
	PathMusic               = "/api/music"
	FieldPrompt             = "prompt"
	FieldConversationOutput = "output"
	FieldMusicAudio         = "audio"
	HeaderRequestID         = "X-Request-ID"
)

// DefaultHeaders returns the headers sent with every API request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "promptdeck/1.0",
	}
}

// ToolID identifies a dashboard tool (one prompt panel page).
type ToolID string

const (
	ToolConversation ToolID = "conversation"
	ToolMusic        ToolID = "music"
)

// Tool describes a prompt panel page
type Tool struct {
	ID          ToolID
	Title       string
	Description string
	Icon        string
	Color       string // hex color for the page accent
	Placeholder string
	EmptyLabel  string
	Path        string // backend route
	Field       string // response field holding the result
}

// Available tools
var (
	ConversationTool = Tool{
		ID:          ToolConversation,
		Title:       "Conversation",
		Description: "Our most advanced conversation model.",
		Icon:        "💬",
		Color:       "#8b5cf6",
		Placeholder: "How is ice formed?",
		EmptyLabel:  "No conversation started.",
		Path:        PathConversation,
		Field:       FieldConversationOutput,
	}

	MusicTool = Tool{
		ID:          ToolMusic,
		Title:       "Music Generation",
		Description: "Turn your prompt into music.",
		Icon:        "🎵",
		Color:       "#047857",
		Placeholder: "Piano solo",
		EmptyLabel:  "No music generated.",
		Path:        PathMusic,
		Field:       FieldMusicAudio,
	}
)

// Tools returns the dashboard tools in display order
func Tools() []Tool {
	return []Tool{ConversationTool, MusicTool}
}

// ToolFromID returns the tool with the given ID
func ToolFromID(id string) (Tool, bool) {
	for _, t := range Tools() {
		if string(t.ID) == id {
			return t, true
		}
	}
	return Tool{}, false
}
