package chat

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"promarket-server/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "chat.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role models.Role, firstName string) *models.User {
	t.Helper()
	user := &models.User{
		Email:     firstName + "@example.com",
		FirstName: firstName,
		LastName:  "Test",
		Role:      role,
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func Test_Send_And_History_RoundTrip(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	u1 := createUser(t, db, models.RoleUser, "Uma")
	p1 := createUser(t, db, models.RoleProfessional, "Pavel")

	sent, err := svc.SendMessage(ctx, u1.ID, p1.ID, "Need a contract reviewed")
	req.NoError(err)
	req.NotZero(sent.ID)
	req.False(sent.IsRead)
	req.Nil(sent.ReadAt)
	req.Equal("Uma", sent.Sender.FirstName)
	req.Equal("Pavel", sent.Receiver.FirstName)

	history, err := svc.GetHistory(ctx, u1.ID, p1.ID, 0, 0)
	req.NoError(err)
	req.Len(history, 1)
	req.Equal(sent.ID, history[0].ID)
	req.Equal("Need a contract reviewed", history[0].Content)
	req.Equal(u1.ID, history[0].SenderID)
	req.Equal(p1.ID, history[0].ReceiverID)
	req.False(history[0].IsRead)
}

func Test_Professional_Cannot_Initiate(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	u2 := createUser(t, db, models.RoleUser, "Ulf")
	p1 := createUser(t, db, models.RoleProfessional, "Petra")

	_, err := svc.SendMessage(ctx, p1.ID, u2.ID, "Hello")
	req.Error(err)
	req.True(IsPolicyDenial(err))
	req.Equal("only a user can initiate a conversation with a professional", err.Error())

	// A denied send never creates a row.
	var count int64
	req.NoError(db.Model(&models.Message{}).Count(&count).Error)
	req.Zero(count)
}

func Test_Professional_Can_Reply_After_User_Initiates(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	u1 := createUser(t, db, models.RoleUser, "Uma")
	p1 := createUser(t, db, models.RoleProfessional, "Pavel")

	_, err := svc.SendMessage(ctx, u1.ID, p1.ID, "Need a contract reviewed")
	req.NoError(err)

	reply, err := svc.SendMessage(ctx, p1.ID, u1.ID, "Sure, send the file")
	req.NoError(err)
	req.Equal(p1.ID, reply.SenderID)

	history, err := svc.GetHistory(ctx, u1.ID, p1.ID, 0, 0)
	req.NoError(err)
	req.Len(history, 2)
}

func Test_User_Cannot_Message_User(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewService(db)

	u1 := createUser(t, db, models.RoleUser, "Uma")
	u2 := createUser(t, db, models.RoleUser, "Ulf")

	_, err := svc.SendMessage(context.Background(), u1.ID, u2.ID, "hi")
	req.Error(err)
	req.True(IsPolicyDenial(err))
	req.Equal("a user can only send messages to professionals", err.Error())
}

func Test_Send_Validation_And_Lookup_Failures(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	u1 := createUser(t, db, models.RoleUser, "Uma")
	p1 := createUser(t, db, models.RoleProfessional, "Pavel")

	_, err := svc.SendMessage(ctx, u1.ID, p1.ID, "   ")
	req.ErrorIs(err, ErrEmptyContent)

	_, err = svc.SendMessage(ctx, u1.ID, "00000000-0000-0000-0000-000000000000", "hello")
	req.ErrorIs(err, ErrReceiverNotFound)
}

func Test_Unread_And_MarkRead_Idempotent(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	u1 := createUser(t, db, models.RoleUser, "Uma")
	p1 := createUser(t, db, models.RoleProfessional, "Pavel")

	_, err := svc.SendMessage(ctx, u1.ID, p1.ID, "Need a contract reviewed")
	req.NoError(err)
	reply, err := svc.SendMessage(ctx, p1.ID, u1.ID, "Sure, send the file")
	req.NoError(err)

	unread, err := svc.GetUnread(ctx, u1.ID)
	req.NoError(err)
	req.Len(unread, 1)
	req.Equal(reply.ID, unread[0].ID)
	req.False(unread[0].IsRead)
	req.Equal("Pavel", unread[0].Sender.FirstName)

	count, err := svc.MarkRead(ctx, p1.ID, u1.ID)
	req.NoError(err)
	req.EqualValues(1, count)

	// Read-state invariant after the mutation: readAt set iff isRead.
	var stored models.Message
	req.NoError(db.First(&stored, "id = ?", reply.ID).Error)
	req.True(stored.IsRead)
	req.NotNil(stored.ReadAt)

	unread, err = svc.GetUnread(ctx, u1.ID)
	req.NoError(err)
	req.Empty(unread)

	// Second invocation mutates nothing and returns zero.
	count, err = svc.MarkRead(ctx, p1.ID, u1.ID)
	req.NoError(err)
	req.Zero(count)

	var after models.Message
	req.NoError(db.First(&after, "id = ?", reply.ID).Error)
	req.Equal(stored.ReadAt.Unix(), after.ReadAt.Unix())
}

func Test_MarkRead_Scoped_To_One_Direction(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	u1 := createUser(t, db, models.RoleUser, "Uma")
	p1 := createUser(t, db, models.RoleProfessional, "Pavel")

	_, err := svc.SendMessage(ctx, u1.ID, p1.ID, "question")
	req.NoError(err)
	_, err = svc.SendMessage(ctx, p1.ID, u1.ID, "answer")
	req.NoError(err)

	// Reading p1->u1 must not touch the unread u1->p1 message.
	_, err = svc.MarkRead(ctx, p1.ID, u1.ID)
	req.NoError(err)

	unread, err := svc.GetUnread(ctx, p1.ID)
	req.NoError(err)
	req.Len(unread, 1)
	req.Equal("question", unread[0].Content)
}

func Test_History_Ordering_And_Pagination(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	u1 := createUser(t, db, models.RoleUser, "Uma")
	p1 := createUser(t, db, models.RoleProfessional, "Pavel")

	contents := []string{"first", "second", "third"}
	for _, content := range contents {
		_, err := svc.SendMessage(ctx, u1.ID, p1.ID, content)
		req.NoError(err)
	}

	history, err := svc.GetHistory(ctx, u1.ID, p1.ID, 0, 0)
	req.NoError(err)
	req.Len(history, 3)
	for i, content := range contents {
		req.Equal(content, history[i].Content)
	}
	req.True(history[0].CreatedAt.Before(history[2].CreatedAt) ||
		history[0].CreatedAt.Equal(history[2].CreatedAt))

	// The newest page comes back first, still in ascending display order.
	page, err := svc.GetHistory(ctx, u1.ID, p1.ID, 2, 0)
	req.NoError(err)
	req.Len(page, 2)
	req.Equal("second", page[0].Content)
	req.Equal("third", page[1].Content)

	page, err = svc.GetHistory(ctx, u1.ID, p1.ID, 2, 2)
	req.NoError(err)
	req.Len(page, 1)
	req.Equal("first", page[0].Content)
}

func Test_Tombstoned_Messages_Count_As_Conversation(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	u1 := createUser(t, db, models.RoleUser, "Uma")
	p1 := createUser(t, db, models.RoleProfessional, "Pavel")

	first, err := svc.SendMessage(ctx, u1.ID, p1.ID, "opening message")
	req.NoError(err)

	// Soft-delete the only message of the conversation.
	req.NoError(db.Delete(&models.Message{}, first.ID).Error)

	history, err := svc.GetHistory(ctx, u1.ID, p1.ID, 0, 0)
	req.NoError(err)
	req.Empty(history)

	// The tombstone still proves the conversation was started, so the
	// professional may reply.
	_, err = svc.SendMessage(ctx, p1.ID, u1.ID, "still here")
	req.NoError(err)
}

func Test_Sent_Message_Timestamps(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewService(db)

	u1 := createUser(t, db, models.RoleUser, "Uma")
	p1 := createUser(t, db, models.RoleProfessional, "Pavel")

	before := time.Now().Add(-time.Second)
	sent, err := svc.SendMessage(context.Background(), u1.ID, p1.ID, "hello")
	req.NoError(err)
	req.True(sent.CreatedAt.After(before))
	req.Nil(sent.ReadAt)
}
