package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"promarket-server/internal/models"

	"gorm.io/gorm"
)

// MessageView is a message enriched with the minimal participant
// projections the clients render.
type MessageView struct {
	ID         uint               `json:"id"`
	SenderID   string             `json:"senderId"`
	ReceiverID string             `json:"receiverId"`
	Content    string             `json:"content"`
	IsRead     bool               `json:"isRead"`
	ReadAt     *time.Time         `json:"readAt"`
	CreatedAt  time.Time          `json:"createdAt"`
	Sender     *models.UserBrief  `json:"sender,omitempty"`
	Receiver   *models.UserBrief  `json:"receiver,omitempty"`
}

// Service orchestrates message reads and writes. It is the single point of
// truth for persistence and policy enforcement, used identically by the
// REST handlers and the realtime gateway.
type Service struct {
	db    *gorm.DB
	store *Store
}

// NewService creates a chat service over the given database handle.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, store: NewStore(db)}
}

// SendMessage validates and persists a new message from senderID to
// receiverID, enforcing the conversation policy first. The policy is
// evaluated against a prior-message count computed immediately before the
// check; a denied send never creates a row.
func (s *Service) SendMessage(ctx context.Context, senderID, receiverID, content string) (*MessageView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	var sender models.User
	if err := s.db.WithContext(ctx).First(&sender, "id = ?", senderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSenderNotFound
		}
		return nil, err
	}

	var receiver models.User
	if err := s.db.WithContext(ctx).First(&receiver, "id = ?", receiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}

	prior, err := s.store.CountBetween(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}

	if err := CanSend(&sender, &receiver, prior); err != nil {
		return nil, err
	}

	msg := models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.store.Create(ctx, &msg); err != nil {
		return nil, err
	}

	msg.Sender = &sender
	msg.Receiver = &receiver
	view := toView(&msg)
	return &view, nil
}

// GetHistory returns one page of the conversation between the two accounts
// in ascending time order. Pagination is caller-driven; the store fetches
// newest-first pages and the result is re-sorted for display.
func (s *Service) GetHistory(ctx context.Context, userA, userB string, limit, offset int) ([]MessageView, error) {
	messages, err := s.store.History(ctx, userA, userB, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, len(messages))
	for i := range messages {
		// Reverse the newest-first page into ascending order.
		views[len(messages)-1-i] = toView(&messages[i])
	}
	return views, nil
}

// GetUnread returns all unread messages addressed to userID, newest first.
func (s *Service) GetUnread(ctx context.Context, userID string) ([]MessageView, error) {
	messages, err := s.store.Unread(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, len(messages))
	for i := range messages {
		views[i] = toView(&messages[i])
	}
	return views, nil
}

// MarkRead marks every unread message from senderID to receiverID as read
// and returns the count mutated. Callers must pass the authenticated
// identity as receiverID; only the receiver's session may invoke this.
func (s *Service) MarkRead(ctx context.Context, senderID, receiverID string) (int64, error) {
	return s.store.MarkRead(ctx, senderID, receiverID)
}

func toView(msg *models.Message) MessageView {
	view := MessageView{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Content:    msg.Content,
		IsRead:     msg.IsRead,
		ReadAt:     msg.ReadAt,
		CreatedAt:  msg.CreatedAt,
	}
	if msg.Sender != nil {
		brief := msg.Sender.Brief()
		view.Sender = &brief
	}
	if msg.Receiver != nil {
		brief := msg.Receiver.Brief()
		view.Receiver = &brief
	}
	return view
}
