package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/storage"
)

const testPrefix = "splitledger:"

func TestStoreLoad(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(mock redismock.ClientMock)
		wantData  string
		wantOK    bool
		wantError bool
	}{
		{
			name: "existing collection",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectGet(testPrefix + storage.CollectionParticipants).SetVal(`[{"id":"a","name":"Alice"}]`)
			},
			wantData: `[{"id":"a","name":"Alice"}]`,
			wantOK:   true,
		},
		{
			name: "missing collection",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectGet(testPrefix + storage.CollectionParticipants).RedisNil()
			},
			wantOK: false,
		},
		{
			name: "connection error",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectGet(testPrefix + storage.CollectionParticipants).SetErr(errors.New("connection refused"))
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := redismock.NewClientMock()
			tt.setup(mock)
			store := New(client, testPrefix)

			data, ok, err := store.Load(context.Background(), storage.CollectionParticipants)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOK, ok)
				if tt.wantOK {
					assert.Equal(t, tt.wantData, string(data))
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStoreSave(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := New(client, testPrefix)

	mock.ExpectTxPipeline()
	mock.ExpectSet(testPrefix+storage.CollectionParticipants, `[]`, 0).SetVal("OK")
	mock.ExpectSet(testPrefix+storage.CollectionExpenses, `[{"id":"e1"}]`, 0).SetVal("OK")
	mock.ExpectTxPipelineExec()

	err := store.Save(context.Background(),
		storage.Document{Collection: storage.CollectionParticipants, Data: []byte(`[]`)},
		storage.Document{Collection: storage.CollectionExpenses, Data: []byte(`[{"id":"e1"}]`)},
	)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSaveError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := New(client, testPrefix)

	mock.ExpectTxPipeline()
	mock.ExpectSet(testPrefix+storage.CollectionDarkMode, `true`, 0).SetErr(errors.New("READONLY"))

	err := store.Save(context.Background(), storage.Document{Collection: storage.CollectionDarkMode, Data: []byte("true")})
	assert.Error(t, err)
}
