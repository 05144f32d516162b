package main

import (
	"context"
	"path/filepath"
	"testing"

	"classroom-roster/config"
	"classroom-roster/db"
	"classroom-roster/roster"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cases := []struct {
		name string
		cfg  config.Config
	}{
		{"memory", config.Config{StoreBackend: config.BackendMemory}},
		{"redis", config.Config{StoreBackend: config.BackendRedis, RedisAddr: mr.Addr()}},
		{"sqlite", config.Config{StoreBackend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "r.db")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			store, closer, err := openStore(ctx, &cfg)
			require.NoError(t, err)
			defer closer.Close()

			require.NoError(t, store.Set(ctx, db.ClassroomsKey, "[]"))
			v, found, err := store.Get(ctx, db.ClassroomsKey)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "[]", v)
		})
	}

	_, _, err := openStore(ctx, &config.Config{StoreBackend: "etcd"})
	assert.Error(t, err)
}

func TestCheckAndSeedData(t *testing.T) {
	ctx := context.Background()
	repo := db.NewClassroomRepository(db.NewMemoryStore())
	manager := roster.NewManager(repo, nil)

	checkAndSeedData(ctx, repo, manager)
	checkAndSeedData(ctx, repo, manager)

	classrooms, err := repo.ListClassrooms(ctx)
	require.NoError(t, err)
	require.Len(t, classrooms, 2)
	assert.Len(t, classrooms[0].Students, 3)
	assert.Len(t, classrooms[1].Students, 2)
}
