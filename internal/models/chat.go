// ABOUTME: ChatSession and ChatMessage entities for the AI chat history
// ABOUTME: Every message is owned by exactly one session
package models

// Chat message roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatSession is one conversation thread.
type ChatSession struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt int64  `json:"updatedAt"`
}

// ChatMessage is a single message inside a session.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// ValidRole reports whether role is a known chat role.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleModel
}
