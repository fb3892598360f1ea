package handlers

import (
	"errors"
	"strconv"

	"promarket-server/internal/ai"
	"promarket-server/internal/chat"
	"promarket-server/internal/middleware"
	"promarket-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// ChatHandler is the thin REST surface over the chat service. The caller's
// side of every conversation pair is always the verified session identity;
// it is never accepted from the client.
type ChatHandler struct {
	Svc *chat.Service
	AI  *ai.Client
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(svc *chat.Service, aiClient *ai.Client) *ChatHandler {
	return &ChatHandler{Svc: svc, AI: aiClient}
}

// GetHistory returns one page of the conversation with the other user, in
// ascending time order.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	otherUserID := c.Param("userId")
	if otherUserID == "" {
		utils.BadRequest(c, "Other user id is required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.Svc.GetHistory(c.Request.Context(), userID, otherUserID, limit, offset)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch chat history: "+err.Error())
		return
	}

	utils.Success(c, "Chat history fetched successfully", messages)
}

// SendMessageRequest represents the request body for sending a message.
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// SendMessage handles sending a new message through the chat service.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	message, err := h.Svc.SendMessage(c.Request.Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyContent):
			utils.BadRequest(c, err.Error())
		case errors.Is(err, chat.ErrReceiverNotFound):
			utils.NotFound(c, err.Error())
		case chat.IsPolicyDenial(err):
			utils.Forbidden(c, err.Error())
		default:
			utils.InternalServerError(c, "Failed to send message: "+err.Error())
		}
		return
	}

	utils.Created(c, "Message sent successfully", message)
}

// GetUnread returns all unread messages addressed to the authenticated user.
func (h *ChatHandler) GetUnread(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	messages, err := h.Svc.GetUnread(c.Request.Context(), userID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch unread messages: "+err.Error())
		return
	}

	utils.Success(c, "Unread messages fetched successfully", messages)
}

// MarkReadResponse represents the response body for MarkRead.
type MarkReadResponse struct {
	Count int64 `json:"count"`
}

// MarkRead marks every unread message from the given sender to the
// authenticated user as read. The receiver side is always the session
// identity, so only the receiver can flip its own unread messages.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	senderID := c.Param("senderId")
	if senderID == "" {
		utils.BadRequest(c, "Sender id is required")
		return
	}

	count, err := h.Svc.MarkRead(c.Request.Context(), senderID, userID)
	if err != nil {
		utils.InternalServerError(c, "Failed to mark messages as read: "+err.Error())
		return
	}

	utils.Success(c, "Messages marked as read", MarkReadResponse{Count: count})
}

// QueryRequest represents the request body for the AI question endpoint.
type QueryRequest struct {
	Question string `json:"question" binding:"required"`
}

// QueryResponse represents the response body for the AI question endpoint.
type QueryResponse struct {
	Answer string `json:"answer"`
}

// Query forwards a question to the external AI service and returns its answer.
func (h *ChatHandler) Query(c *gin.Context) {
	var req QueryRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	answer, err := h.AI.Ask(c.Request.Context(), req.Question)
	if err != nil {
		utils.BadGateway(c, "Failed to get answer: "+err.Error())
		return
	}

	utils.Success(c, "Answer fetched successfully", QueryResponse{Answer: answer})
}
