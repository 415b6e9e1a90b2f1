package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

// ConversationID is shared by both participants of a chat about one product.
func ConversationID(userA, userB, productID string) string {
	ids := []string{userA, userB}
	sort.Strings(ids)
	return strings.Join(ids, "_") + "_" + productID
}

// MessageService handles buyer/seller chats.
type MessageService struct {
	messages MessageStore
	products ProductStore
}

// NewMessageService creates a new MessageService.
func NewMessageService(messages MessageStore, products ProductStore) *MessageService {
	return &MessageService{messages: messages, products: products}
}

// Send starts or continues the conversation with the seller of productID.
func (s *MessageService) Send(ctx context.Context, user *models.User, productID, content string) (*models.Message, error) {
	if user == nil {
		return nil, utils.ErrLoginRequired
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message is empty", utils.ErrValidation)
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p.SellerID == user.ID {
		return nil, fmt.Errorf("%w: you cannot message yourself", utils.ErrValidation)
	}

	m := &models.Message{
		ConversationID: ConversationID(user.ID, p.SellerID, p.ID),
		SenderID:       user.ID,
		SenderName:     user.FullName,
		SenderEmail:    user.Email,
		ReceiverID:     p.SellerID,
		ReceiverName:   p.SellerName,
		ReceiverEmail:  p.SellerEmail,
		ProductID:      p.ID,
		ProductTitle:   p.Title,
		Content:        content,
	}
	return s.create(ctx, m)
}

// Reply answers inside an existing conversation of the user.
func (s *MessageService) Reply(ctx context.Context, user *models.User, conversationID, content string) (*models.Message, error) {
	if user == nil {
		return nil, utils.ErrLoginRequired
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message is empty", utils.ErrValidation)
	}

	messages, err := s.messages.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	for _, c := range groupConversations(user.ID, messages, "") {
		if c.ID != conversationID {
			continue
		}
		return s.create(ctx, &models.Message{
			ConversationID: c.ID,
			SenderID:       user.ID,
			SenderName:     user.FullName,
			SenderEmail:    user.Email,
			ReceiverID:     c.OtherUser.ID,
			ReceiverName:   c.OtherUser.Name,
			ReceiverEmail:  c.OtherUser.Email,
			ProductID:      c.Product.ID,
			ProductTitle:   c.Product.Title,
			Content:        content,
		})
	}
	return nil, utils.ErrNotFound
}

func (s *MessageService) create(ctx context.Context, m *models.Message) (*models.Message, error) {
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	log.Info().
		Str("conversation_id", m.ConversationID).
		Str("sender_id", m.SenderID).
		Msg("Message sent")
	return m, nil
}

// Conversations groups the user's messages by conversation, most recently
// active first. search matches the other participant's name or the product title.
func (s *MessageService) Conversations(ctx context.Context, user *models.User, search string) ([]models.Conversation, error) {
	if user == nil {
		return nil, utils.ErrLoginRequired
	}
	messages, err := s.messages.ListForUser(ctx, user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to list messages")
		return []models.Conversation{}, nil
	}
	return groupConversations(user.ID, messages, search), nil
}

// groupConversations expects messages newest first.
func groupConversations(userID string, messages []models.Message, search string) []models.Conversation {
	index := map[string]int{}
	conversations := []models.Conversation{}
	for _, m := range messages {
		i, ok := index[m.ConversationID]
		if !ok {
			other := models.Participant{ID: m.SenderID, Name: m.SenderName, Email: m.SenderEmail}
			if m.SenderID == userID {
				other = models.Participant{ID: m.ReceiverID, Name: m.ReceiverName, Email: m.ReceiverEmail}
			}
			conversations = append(conversations, models.Conversation{
				ID:        m.ConversationID,
				OtherUser: other,
				Product:   models.ProductRef{ID: m.ProductID, Title: m.ProductTitle},
			})
			i = len(conversations) - 1
			index[m.ConversationID] = i
		}
		c := &conversations[i]
		c.Messages = append(c.Messages, m)
		if m.ReceiverID == userID && !m.IsRead {
			c.UnreadCount++
		}
	}

	sort.SliceStable(conversations, func(a, b int) bool {
		return conversations[a].Messages[0].CreatedAt.After(conversations[b].Messages[0].CreatedAt)
	})

	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return conversations
	}
	out := conversations[:0]
	for _, c := range conversations {
		if strings.Contains(strings.ToLower(c.OtherUser.Name), term) ||
			strings.Contains(strings.ToLower(c.Product.Title), term) {
			out = append(out, c)
		}
	}
	return out
}

// MarkRead marks the user's received messages in a conversation as read.
func (s *MessageService) MarkRead(ctx context.Context, user *models.User, conversationID string) (int64, error) {
	if user == nil {
		return 0, utils.ErrLoginRequired
	}
	n, err := s.messages.MarkConversationRead(ctx, conversationID, user.ID)
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	return n, nil
}

// UnreadCount is the number of unread messages the user received.
func (s *MessageService) UnreadCount(ctx context.Context, user *models.User) (int, error) {
	conversations, err := s.Conversations(ctx, user, "")
	if err != nil {
		return 0, err
	}
	total := 0
	for _, c := range conversations {
		total += c.UnreadCount
	}
	return total, nil
}
