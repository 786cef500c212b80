package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGHandler_PersistsErrorsOnly(t *testing.T) {
	db := testutil.NewDB(t)
	h := logging.NewPGHandler(db, time.Hour)
	logger := slog.New(h).With("request_id", "req-1")

	logger.Info("ignored")
	logger.Warn("ignored too")
	logger.Error("payment failed",
		"user_id", "u-1",
		"action", "record_payment",
		"error", "boom",
		"latency_ms", 12.6,
		"plan", "Pro",
	)
	h.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "payment failed", entry.Message)
	assert.Equal(t, "req-1", entry.RequestID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u-1", *entry.UserID)
	assert.Equal(t, "record_payment", entry.Action)
	assert.Equal(t, "boom", entry.Error)
	assert.Equal(t, 13, entry.LatencyMs)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.Equal(t, "Pro", extra["plan"])
}

func TestPGHandler_DropsRecordsAfterStop(t *testing.T) {
	db := testutil.NewDB(t)
	h := logging.NewPGHandler(db, time.Hour)
	logger := slog.New(h)

	for i := 0; i < 60; i++ {
		logger.Error("before stop")
	}
	h.Stop()
	for i := 0; i < 60; i++ {
		logger.Error("after stop")
	}

	var before, after int64
	require.NoError(t, db.Model(&models.SystemLog{}).Where("message = ?", "before stop").Count(&before).Error)
	require.NoError(t, db.Model(&models.SystemLog{}).Where("message = ?", "after stop").Count(&after).Error)
	assert.EqualValues(t, 60, before)
	assert.Zero(t, after)
}

func TestPurgeLogs(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&[]models.SystemLog{
		{Timestamp: now.AddDate(0, 0, -40), Level: "ERROR", Message: "old"},
		{Timestamp: now.AddDate(0, 0, -1), Level: "ERROR", Message: "recent"},
	}).Error)

	deleted, err := logging.PurgeLogs(db, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var remaining []models.SystemLog
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "recent", remaining[0].Message)
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandler_DeliversPastFailures(t *testing.T) {
	var buf bytes.Buffer
	out := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	h := logging.NewMultiHandler(failingHandler{}, out)

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0))

	assert.EqualError(t, err, "sink down")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestMultiHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	errorsOnly := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError})
	h := logging.NewMultiHandler(errorsOnly)

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}
