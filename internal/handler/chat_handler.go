package handler

import (
	"context"
	"net/http"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/pagination"
	"github.com/gin-gonic/gin"
)

type ChatCommander interface {
	OpenChat(context.Context, cqrs.OpenChatCommand) (*models.Chat, bool, error)
	DeleteChat(context.Context, cqrs.DeleteChatCommand) error
	SendMessage(context.Context, cqrs.SendMessageCommand) (*models.MessageView, error)
	EditMessage(context.Context, cqrs.EditMessageCommand) (*models.MessageView, error)
	DeleteMessage(context.Context, cqrs.DeleteMessageCommand) error
}

type ChatQuerier interface {
	ListChats(context.Context, cqrs.ListChatsQuery) (*pagination.Page[models.ChatListItem], error)
	GetChat(context.Context, cqrs.GetChatQuery) (*models.ChatView, *pagination.Page[models.MessageView], error)
	ListMessages(context.Context, cqrs.ListMessagesQuery) (*pagination.Page[models.MessageView], error)
}

// ChatHandler serves chats and their messages. Every route requires an
// authenticated caller, and chat routes require membership.
type ChatHandler struct {
	commands ChatCommander
	queries  ChatQuerier
}

type OpenChatRequest struct {
	SellerID string `json:"sellerId" validate:"required"`
}

type MessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}

func (r *MessageRequest) normalize() { trimSpace(&r.Text) }

func NewChatHandler(commands ChatCommander, queries ChatQuerier) *ChatHandler {
	return &ChatHandler{commands: commands, queries: queries}
}

// OpenChat returns 201 for a new chat and 200 when the pair already had one.
func (h *ChatHandler) OpenChat(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req OpenChatRequest
	if !bindJSON(c, &req) {
		return
	}

	chat, created, err := h.commands.OpenChat(c.Request.Context(), cqrs.OpenChatCommand{
		SellerID: req.SellerID,
		BuyerID:  userID,
	})
	if err != nil {
		respondError(c, err, "Failed to open chat")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, chat)
}

func (h *ChatHandler) ListChats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req pagination.Params
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.queries.ListChats(c.Request.Context(), cqrs.ListChatsQuery{UserID: userID, Page: req})
	if err != nil {
		respondError(c, err, "Failed to list chats")
		return
	}

	respondPage(c, "chats", page)
}

// GetChat responds with the chat under "chat" and the message page metadata
// alongside it.
func (h *ChatHandler) GetChat(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req pagination.Params
	if !bindQuery(c, &req) {
		return
	}

	chat, page, err := h.queries.GetChat(c.Request.Context(), cqrs.GetChatQuery{
		ChatID:           c.Param("chatId"),
		RequestingUserID: userID,
		Page:             req,
	})
	if err != nil {
		respondError(c, err, "Failed to load chat")
		return
	}

	body := page.Envelope("chat")
	body["chat"] = chat
	c.JSON(http.StatusOK, body)
}

func (h *ChatHandler) DeleteChat(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	err := h.commands.DeleteChat(c.Request.Context(), cqrs.DeleteChatCommand{
		ChatID:           c.Param("chatId"),
		RequestingUserID: userID,
	})
	if err != nil {
		respondError(c, err, "Failed to delete chat")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req MessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.commands.SendMessage(c.Request.Context(), cqrs.SendMessageCommand{
		ChatID:   c.Param("chatId"),
		AuthorID: userID,
		Text:     req.Text,
	})
	if err != nil {
		respondError(c, err, "Failed to send message")
		return
	}

	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req pagination.Params
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.queries.ListMessages(c.Request.Context(), cqrs.ListMessagesQuery{
		ChatID:           c.Param("chatId"),
		RequestingUserID: userID,
		Page:             req,
	})
	if err != nil {
		respondError(c, err, "Failed to list messages")
		return
	}

	respondPage(c, "messages", page)
}

func (h *ChatHandler) EditMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req MessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.commands.EditMessage(c.Request.Context(), cqrs.EditMessageCommand{
		ChatID:           c.Param("chatId"),
		MessageID:        c.Param("messageId"),
		RequestingUserID: userID,
		Text:             req.Text,
	})
	if err != nil {
		respondError(c, err, "Failed to edit message")
		return
	}

	c.JSON(http.StatusOK, msg)
}

func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	err := h.commands.DeleteMessage(c.Request.Context(), cqrs.DeleteMessageCommand{
		ChatID:           c.Param("chatId"),
		MessageID:        c.Param("messageId"),
		RequestingUserID: userID,
	})
	if err != nil {
		respondError(c, err, "Failed to delete message")
		return
	}

	c.Status(http.StatusNoContent)
}
