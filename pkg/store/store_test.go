package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helmcode/inr-assistant/pkg/config"
	"github.com/helmcode/inr-assistant/pkg/model"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func seedUsers(t *testing.T, s Store) time.Time {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.EnsureUser(ctx, model.UserRecord{ID: "u1", DisplayName: "Dana", Email: "dana@example.com", CreatedAt: base}))
	require.NoError(t, s.EnsureUser(ctx, model.UserRecord{ID: "u2", Email: "noam@example.com", CreatedAt: base.Add(48 * time.Hour)}))
	require.NoError(t, s.EnsureUser(ctx, model.UserRecord{ID: "u3", DisplayName: "Yael", CreatedAt: base.Add(1500 * time.Millisecond)}))
	return base
}

func TestListUsersNewestFirst(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			base := seedUsers(t, s)

			users, err := s.ListUsers(context.Background())
			require.NoError(t, err)
			require.Len(t, users, 3)
			assert.Equal(t, "u2", users[0].ID)
			assert.Equal(t, "u3", users[1].ID)
			assert.Equal(t, "u1", users[2].ID)
			assert.True(t, users[2].CreatedAt.Equal(base))
			assert.Equal(t, "Dana", users[2].Label())
		})
	}
}

func TestListUsersEmpty(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			users, err := s.ListUsers(context.Background())
			require.NoError(t, err)
			assert.Empty(t, users)
			assert.NotNil(t, users)
		})
	}
}

func TestEnsureUserKeepsExisting(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedUsers(t, s)
			require.NoError(t, s.EnsureUser(ctx, model.UserRecord{ID: "u1", DisplayName: "Renamed", CreatedAt: time.Now()}))

			users, err := s.ListUsers(ctx)
			require.NoError(t, err)
			require.Len(t, users, 3)
			assert.Equal(t, "Dana", users[2].DisplayName)
		})
	}
}

func TestINRDataRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			empty, err := s.LoadINRData(ctx, "u1")
			require.NoError(t, err)
			assert.Empty(t, empty.Measurements)
			assert.NotNil(t, empty.Measurements)

			age := 64
			data := &model.INRData{
				Measurements: []model.Measurement{
					{ID: "m1", Date: "2026-03-01", INR: 2.4, Dose: 5, CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
				},
				TargetRange: model.TargetRange{Min: 2.5, Max: 3.5},
				PatientInfo: model.PatientInfo{Age: &age},
				UpdatedAt:   time.Date(2026, 3, 1, 8, 5, 0, 0, time.UTC),
			}
			require.NoError(t, s.SaveINRData(ctx, "u1", data))

			data.Measurements[0].INR = 9
			loaded, err := s.LoadINRData(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, loaded.Measurements, 1)
			assert.Equal(t, 2.4, loaded.Measurements[0].INR)
			assert.Equal(t, model.TargetRange{Min: 2.5, Max: 3.5}, loaded.TargetRange)
			require.NotNil(t, loaded.PatientInfo.Age)
			assert.Equal(t, 64, *loaded.PatientInfo.Age)
		})
	}
}

func TestSaveINRDataOverwrites(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.SaveINRData(ctx, "u1", &model.INRData{TargetRange: model.TargetRange{Min: 2, Max: 3}}))
			require.NoError(t, s.SaveINRData(ctx, "u1", &model.INRData{TargetRange: model.TargetRange{Min: 2.5, Max: 3.5}}))

			loaded, err := s.LoadINRData(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, 2.5, loaded.TargetRange.Min)
		})
	}
}

func TestDeleteUserRemovesBothRecords(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedUsers(t, s)
			require.NoError(t, s.SaveINRData(ctx, "u1", &model.INRData{Measurements: []model.Measurement{{ID: "m1", INR: 2.1}}}))
			require.NoError(t, s.SaveINRData(ctx, "u2", &model.INRData{Measurements: []model.Measurement{{ID: "m2", INR: 3.1}}}))

			require.NoError(t, s.DeleteUser(ctx, "u1"))

			users, err := s.ListUsers(ctx)
			require.NoError(t, err)
			ids := []string{}
			for _, u := range users {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, []string{"u2", "u3"}, ids)

			gone, err := s.LoadINRData(ctx, "u1")
			require.NoError(t, err)
			assert.Empty(t, gone.Measurements)

			kept, err := s.LoadINRData(ctx, "u2")
			require.NoError(t, err)
			assert.Len(t, kept.Measurements, 1)
		})
	}
}

func TestDeleteMissingUser(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, s.DeleteUser(context.Background(), "nobody"))
		})
	}
}

func TestCancelledContext(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := s.ListUsers(ctx)
			var storeErr *StorageError
			require.ErrorAs(t, err, &storeErr)
			assert.Equal(t, OpList, storeErr.Op)
			assert.Equal(t, model.UsersCollection, storeErr.Collection)
			assert.True(t, errors.Is(err, context.Canceled))
		})
	}
}

func TestStorageErrorMessage(t *testing.T) {
	err := &StorageError{Op: OpDelete, Collection: "users", ID: "u1", Err: errors.New("permission denied")}
	assert.Equal(t, "storage delete users/u1: permission denied", err.Error())

	err = &StorageError{Op: OpList, Collection: "users", Err: errors.New("unavailable")}
	assert.Equal(t, "storage list users: unavailable", err.Error())
}

func TestOpen(t *testing.T) {
	log := zap.NewNop()
	ctx := context.Background()

	s, err := Open(ctx, &config.Config{Store: config.StoreConfig{Backend: config.StoreMemory}}, log)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, &config.Config{Store: config.StoreConfig{
		Backend:    config.StoreSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "inr.db"),
	}}, log)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, &config.Config{Store: config.StoreConfig{Backend: config.StoreFirestore}}, log)
	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.KeyFirebaseProjectID, cfgErr.Field)

	_, err = Open(ctx, &config.Config{Store: config.StoreConfig{Backend: "mongo"}}, log)
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.KeyStoreBackend, cfgErr.Field)
}
