package chat

import (
	"context"
	"time"

	"promarket-server/internal/models"

	"gorm.io/gorm"
)

// DefaultHistoryLimit is the page size used when the caller does not ask
// for a specific one.
const DefaultHistoryLimit = 50

// Store owns all reads and writes of persisted messages. The chat service
// is its only caller; the realtime gateway never touches it directly.
type Store struct {
	db *gorm.DB
}

// NewStore creates a message store over the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new message row. Single-row insert, atomic at the
// storage layer.
func (s *Store) Create(ctx context.Context, msg *models.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

// History returns messages exchanged between the two accounts in either
// direction, newest first, paginated by limit and offset. Sender and
// receiver projections are preloaded. Tombstoned messages are excluded.
func (s *Store) History(ctx context.Context, userA, userB string, limit, offset int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	var messages []models.Message
	err := s.db.WithContext(ctx).
		Preload("Sender").Preload("Receiver").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, err
}

// Unread returns all unread messages addressed to receiverID, newest first,
// with the sender projection preloaded for list rendering.
func (s *Store) Unread(ctx context.Context, receiverID string) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Preload("Sender").
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Order("created_at DESC").Order("id DESC").
		Find(&messages).Error
	return messages, err
}

// MarkRead flips every currently-unread message from senderID to receiverID
// to read, stamping ReadAt, in one bulk update. Returns the number of rows
// mutated. Idempotent: a second call finds nothing unread and returns zero.
func (s *Store) MarkRead(ctx context.Context, senderID, receiverID string) (int64, error) {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	return res.RowsAffected, res.Error
}

// CountBetween returns the total number of messages ever exchanged between
// the two accounts in either direction. Tombstoned messages still count:
// a soft-deleted exchange is evidence the conversation was started.
func (s *Store) CountBetween(ctx context.Context, userA, userB string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Unscoped().Model(&models.Message{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count, err
}
