package entities

import "time"

// Conversation models the persisted conversation identity. A conversation is
// created implicitly on first message and carries no attributes beyond its
// id.
type Conversation struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Message models one persisted turn. The creation timestamp is assigned by
// the store; the auto incremented id breaks ties between turns written in
// the same request.
type Message struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	ConversationID string    `gorm:"type:uuid;index:idx_messages_conversation_created;not null"`
	Role           string    `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_messages_conversation_created"`
}

func (Message) TableName() string {
	return "messages"
}
