package domain

// ChatMessage is one turn of an exchange (user or ai).
type ChatMessage struct {
	Role    Role
	Content string
}

// ChatSession is a single persisted exchange. Every chat request creates a
// new one; sessions are never merged or updated.
type ChatSession struct {
	ID        ChatSessionID
	UserID    UserID
	Messages  []ChatMessage
	Timestamp Timestamp
}
