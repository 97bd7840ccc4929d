package domain

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry of an in-memory chat history
type Message struct {
	Role    Role
	Content string
}
