package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/umuhuza/umuhuza_api/internal/middleware"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

type MessageHandler struct {
	messages MessageService
}

func NewMessageHandler(messages MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type messageRequest struct {
	Content string `json:"content"`
}

// Send messages the seller of product :id.
func (h *MessageHandler) Send(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	m, err := h.messages.Send(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Message sent", m)
}

// Reply answers in conversation :id.
func (h *MessageHandler) Reply(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	m, err := h.messages.Reply(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Message sent", m)
}

// Conversations lists the inbox, filtered by ?search=.
func (h *MessageHandler) Conversations(c *gin.Context) {
	user := middleware.CurrentUser(c)
	conversations, err := h.messages.Conversations(c.Request.Context(), user, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	unread := 0
	for _, conv := range conversations {
		unread += conv.UnreadCount
	}
	utils.Success(c, http.StatusOK, "Conversations retrieved", gin.H{
		"conversations": conversations,
		"unreadCount":   unread,
	})
}

// UnreadCount backs the inbox badge.
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	n, err := h.messages.UnreadCount(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Unread count retrieved", gin.H{"unreadCount": n})
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	n, err := h.messages.MarkRead(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Conversation marked as read", gin.H{"updated": n})
}
