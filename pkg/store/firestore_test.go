package store

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/inr-assistant/pkg/model"
)

// Runs against the Firestore emulator when FIRESTORE_EMULATOR_HOST is set.
func TestFirestoreStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "inr-assistant-test")
	require.NoError(t, err)
	s := NewFirestore(client)
	defer s.Close()

	id := uuid.NewString()
	require.NoError(t, s.EnsureUser(ctx, model.UserRecord{ID: id, Email: "fs@example.com", CreatedAt: time.Now()}))
	require.NoError(t, s.EnsureUser(ctx, model.UserRecord{ID: id, Email: "other@example.com", CreatedAt: time.Now()}))
	require.NoError(t, s.SaveINRData(ctx, id, &model.INRData{Measurements: []model.Measurement{{ID: "m1", INR: 2.2}}}))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	var found *model.UserRecord
	for i := range users {
		if users[i].ID == id {
			found = &users[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "fs@example.com", found.Email)

	require.NoError(t, s.DeleteUser(ctx, id))
	data, err := s.LoadINRData(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, data.Measurements)
	assert.NoError(t, s.DeleteUser(ctx, id))
}
