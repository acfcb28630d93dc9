package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerRepos(t *testing.T) {
	repos := map[string]func(t *testing.T) PlayerRepo{
		"memory": func(t *testing.T) PlayerRepo { return NewMemoryPlayerRepo() },
		"badger": func(t *testing.T) PlayerRepo { return setupTestStorage(t) },
	}

	for name, newRepo := range repos {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			t.Run("Save and Load", func(t *testing.T) {
				want := PlayerState{X: 10.5, Y: 64, Z: -3, Yaw: 90, Pitch: 15}
				require.NoError(t, repo.Save(ctx, "alice", want))

				got, found, err := repo.Load(ctx, "alice")
				require.NoError(t, err)
				require.True(t, found)
				assert.Equal(t, want, got)
			})

			t.Run("Load Non-Existent Player", func(t *testing.T) {
				got, found, err := repo.Load(ctx, "nobody")
				require.NoError(t, err)
				assert.False(t, found)
				assert.Equal(t, PlayerState{}, got)
			})

			t.Run("Batch Save", func(t *testing.T) {
				require.NoError(t, repo.BatchSave(ctx, map[string]PlayerState{
					"bob":   {X: 1},
					"carol": {X: 2},
				}))
				got, found, err := repo.Load(ctx, "carol")
				require.NoError(t, err)
				require.True(t, found)
				assert.Equal(t, 2.0, got.X)
				assert.NoError(t, repo.BatchSave(ctx, nil))
			})

			t.Run("Delete", func(t *testing.T) {
				require.NoError(t, repo.Delete(ctx, "bob"))
				_, found, err := repo.Load(ctx, "bob")
				require.NoError(t, err)
				assert.False(t, found)
				assert.ErrorIs(t, repo.Delete(ctx, "bob"), ErrPlayerNotFound)
			})

			t.Run("Invalid Input", func(t *testing.T) {
				assert.Error(t, repo.Save(ctx, "", PlayerState{}))
				_, _, err := repo.Load(ctx, "")
				assert.Error(t, err)
				assert.Error(t, repo.BatchSave(ctx, map[string]PlayerState{"": {}}))
			})

			t.Run("Cancelled Context", func(t *testing.T) {
				cancelled, cancel := context.WithCancel(ctx)
				cancel()
				assert.ErrorIs(t, repo.Save(cancelled, "dave", PlayerState{}), context.Canceled)
			})
		})
	}
}
