package models

import "time"

// Message is a buyer/seller chat message about one product.
type Message struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversationId"`
	SenderID       string    `db:"sender_id" json:"senderId"`
	SenderName     string    `db:"sender_name" json:"senderName"`
	SenderEmail    string    `db:"sender_email" json:"senderEmail"`
	ReceiverID     string    `db:"receiver_id" json:"receiverId"`
	ReceiverName   string    `db:"receiver_name" json:"receiverName"`
	ReceiverEmail  string    `db:"receiver_email" json:"receiverEmail"`
	ProductID      string    `db:"product_id" json:"productId"`
	ProductTitle   string    `db:"product_title" json:"productTitle"`
	Content        string    `db:"content" json:"content"`
	IsRead         bool      `db:"is_read" json:"isRead"`
	CreatedAt      time.Time `db:"created_at" json:"createdDate"`
}

// Participant is the other side of a conversation.
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProductRef identifies the product a conversation is about.
type ProductRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Conversation groups messages sharing a conversation id, newest first.
type Conversation struct {
	ID          string      `json:"id"`
	OtherUser   Participant `json:"otherUser"`
	Product     ProductRef  `json:"product"`
	Messages    []Message   `json:"messages"`
	UnreadCount int         `json:"unreadCount"`
}
