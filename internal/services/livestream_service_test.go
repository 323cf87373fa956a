// internal/services/livestream_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/karigarh/marketplace-backend/internal/apperrors"
	"github.com/karigarh/marketplace-backend/internal/models"
)

// endStreamBeforeWrite injects a concurrent transition to ended between a
// service read and its guarded write, on the same connection.
func endStreamBeforeWrite(t *testing.T, db *gorm.DB, streamID uuid.UUID) *bool {
	t.Helper()

	raced := false
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("end_first", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "live_streams" {
			return
		}
		raced = true
		err := tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE live_streams SET status = ? WHERE id = ?", models.LiveStreamStatusEnded, streamID).Error
		require.NoError(t, err)
	}))
	t.Cleanup(func() {
		require.NoError(t, db.Callback().Update().Remove("end_first"))
	})

	return &raced
}

func TestCreateLiveStreamAlwaysScheduled(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLiveStreamService(db, newTestCache())

	user, _ := createTestProducer(t, db, models.ApprovalStatusApproved)

	// Even with a start time already in the past the session does not jump
	// to active on its own.
	stream, err := svc.CreateLiveStream(user.ID, &CreateLiveStreamRequest{
		Title:     "Loom demonstration",
		StartTime: time.Now().Add(-2 * time.Hour),
		Story:     "Weaving the winter collection",
	})
	require.NoError(t, err)

	assert.Equal(t, models.LiveStreamStatusScheduled, stream.Status)
}

func TestCreateLiveStreamRequiresProducerProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLiveStreamService(db, newTestCache())

	user := createTestUser(t, db, models.UserTypeBuyer)

	_, err := svc.CreateLiveStream(user.ID, &CreateLiveStreamRequest{
		Title:     "Loom demonstration",
		StartTime: time.Now(),
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestLiveStreamForwardOnlyTransitions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLiveStreamService(db, newTestCache())

	user, _ := createTestProducer(t, db, models.ApprovalStatusApproved)
	stream, err := svc.CreateLiveStream(user.ID, &CreateLiveStreamRequest{
		Title:     "Loom demonstration",
		StartTime: time.Now(),
	})
	require.NoError(t, err)

	// Skipping straight to ended is not allowed.
	_, err = svc.UpdateStatus(user.ID, stream.ID, models.LiveStreamStatusEnded)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	active, err := svc.UpdateStatus(user.ID, stream.ID, models.LiveStreamStatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.LiveStreamStatusActive, active.Status)

	// No going back.
	_, err = svc.UpdateStatus(user.ID, stream.ID, models.LiveStreamStatusScheduled)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	ended, err := svc.UpdateStatus(user.ID, stream.ID, models.LiveStreamStatusEnded)
	require.NoError(t, err)
	assert.Equal(t, models.LiveStreamStatusEnded, ended.Status)

	// Ended is terminal.
	_, err = svc.UpdateStatus(user.ID, stream.ID, models.LiveStreamStatusActive)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestLiveStreamOnlyOwnerDrivesStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLiveStreamService(db, newTestCache())

	owner, _ := createTestProducer(t, db, models.ApprovalStatusApproved)
	other, _ := createTestProducer(t, db, models.ApprovalStatusApproved)

	stream, err := svc.CreateLiveStream(owner.ID, &CreateLiveStreamRequest{
		Title:     "Loom demonstration",
		StartTime: time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(other.ID, stream.ID, models.LiveStreamStatusActive)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestLiveStreamStoryFreezesAfterEnd(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLiveStreamService(db, newTestCache())

	user, _ := createTestProducer(t, db, models.ApprovalStatusApproved)
	stream, err := svc.CreateLiveStream(user.ID, &CreateLiveStreamRequest{
		Title:     "Loom demonstration",
		StartTime: time.Now(),
		Story:     "first draft",
	})
	require.NoError(t, err)

	// Editable while scheduled and while active.
	updated, err := svc.UpdateStory(user.ID, stream.ID, &UpdateLiveStreamStoryRequest{Story: "second draft"})
	require.NoError(t, err)
	assert.Equal(t, "second draft", updated.Story)

	_, err = svc.UpdateStatus(user.ID, stream.ID, models.LiveStreamStatusActive)
	require.NoError(t, err)
	_, err = svc.UpdateStory(user.ID, stream.ID, &UpdateLiveStreamStoryRequest{Story: "live notes"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(user.ID, stream.ID, models.LiveStreamStatusEnded)
	require.NoError(t, err)

	// Frozen once ended.
	_, err = svc.UpdateStory(user.ID, stream.ID, &UpdateLiveStreamStoryRequest{Story: "rewritten history"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	final, err := svc.GetLiveStream(stream.ID)
	require.NoError(t, err)
	assert.Equal(t, "live notes", final.Story)
}

func TestUpdateStatusRefusesConcurrentlyEndedStream(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLiveStreamService(db, newTestCache())

	user, _ := createTestProducer(t, db, models.ApprovalStatusApproved)
	stream, err := svc.CreateLiveStream(user.ID, &CreateLiveStreamRequest{
		Title:     "Loom demonstration",
		StartTime: time.Now(),
	})
	require.NoError(t, err)

	raced := endStreamBeforeWrite(t, db, stream.ID)

	// Going live validated scheduled -> active, but the stream ended in the
	// meantime; committing active now would revive a terminal stream.
	_, err = svc.UpdateStatus(user.ID, stream.ID, models.LiveStreamStatusActive)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.True(t, *raced)

	var persisted models.LiveStream
	require.NoError(t, db.First(&persisted, "id = ?", stream.ID).Error)
	assert.Equal(t, models.LiveStreamStatusEnded, persisted.Status)
}

func TestUpdateStoryRefusedWhenStreamEndsConcurrently(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLiveStreamService(db, newTestCache())

	user, _ := createTestProducer(t, db, models.ApprovalStatusApproved)
	stream, err := svc.CreateLiveStream(user.ID, &CreateLiveStreamRequest{
		Title:     "Loom demonstration",
		StartTime: time.Now(),
		Story:     "first draft",
	})
	require.NoError(t, err)

	raced := endStreamBeforeWrite(t, db, stream.ID)

	_, err = svc.UpdateStory(user.ID, stream.ID, &UpdateLiveStreamStoryRequest{Story: "rewritten history"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.True(t, *raced)

	var persisted models.LiveStream
	require.NoError(t, db.First(&persisted, "id = ?", stream.ID).Error)
	assert.Equal(t, "first draft", persisted.Story)
	assert.Equal(t, models.LiveStreamStatusEnded, persisted.Status)
}

func TestListLiveStreamsByRegions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLiveStreamService(db, newTestCache())

	kutchUser, _ := createTestProducer(t, db, models.ApprovalStatusApproved)

	jaipurUser := createTestUser(t, db, models.UserTypeProducer)
	require.NoError(t, db.Create(&models.Producer{
		UserID:         jaipurUser.ID,
		Name:           "Ramesh Kumar",
		Region:         "Jaipur",
		ApprovalStatus: models.ApprovalStatusApproved,
	}).Error)

	kutchStream, err := svc.CreateLiveStream(kutchUser.ID, &CreateLiveStreamRequest{
		Title:     "Bandhani dyeing",
		StartTime: time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.CreateLiveStream(jaipurUser.ID, &CreateLiveStreamRequest{
		Title:     "Block printing",
		StartTime: time.Now(),
	})
	require.NoError(t, err)

	result, err := svc.ListByRegions([]string{"Kutch"}, listParams())
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Total)
	streams := result.Data.([]models.LiveStream)
	assert.Equal(t, kutchStream.ID, streams[0].ID)

	result, err = svc.ListByRegions([]string{"Kutch", "Jaipur"}, listParams())
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
}

func TestListLiveStreamsByStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLiveStreamService(db, newTestCache())

	user, _ := createTestProducer(t, db, models.ApprovalStatusApproved)

	scheduled, err := svc.CreateLiveStream(user.ID, &CreateLiveStreamRequest{
		Title:     "Morning session",
		StartTime: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	active, err := svc.CreateLiveStream(user.ID, &CreateLiveStreamRequest{
		Title:     "Afternoon session",
		StartTime: time.Now(),
	})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(user.ID, active.ID, models.LiveStreamStatusActive)
	require.NoError(t, err)

	result, err := svc.ListByStatus(models.LiveStreamStatusActive, listParams())
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Total)
	streams := result.Data.([]models.LiveStream)
	assert.Equal(t, active.ID, streams[0].ID)

	result, err = svc.ListByStatus(models.LiveStreamStatusScheduled, listParams())
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Total)
	streams = result.Data.([]models.LiveStream)
	assert.Equal(t, scheduled.ID, streams[0].ID)
}
