package database_test

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCreatesTables(t *testing.T) {
	db := testutil.NewDB(t)

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Subscription{}))
	assert.True(t, db.Migrator().HasTable(&models.SystemLog{}))
	assert.True(t, db.Migrator().HasIndex(&models.Subscription{}, "idx_subscriptions_email_plan"))
}

func TestPingAndClose(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, database.Ping(db))
	require.NoError(t, database.Close(db))
	assert.Error(t, database.Ping(db))
}
