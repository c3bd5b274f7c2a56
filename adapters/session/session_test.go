package session

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func init() {
	// 將日誌輸出重定向到io.Discard
	log.SetOutput(io.Discard)
}

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)

	tests := []struct {
		name    string
		id      string
		store   IStore
		wantErr bool
		errMsg  string
	}{
		{
			name:  "valid parameters",
			id:    "test-id",
			store: NewMockIStore(ctrl),
		},
		{
			name:    "empty id",
			store:   NewMockIStore(ctrl),
			wantErr: true,
			errMsg:  "session id cannot be empty",
		},
		{
			name:    "nil store",
			id:      "test-id",
			wantErr: true,
			errMsg:  "store cannot be nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.id, tt.store)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, s)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.id, s.ID())
		})
	}
}

func TestNewID(t *testing.T) {
	id := NewID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, NewID())
}

func TestSession_Load(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(*MockIStore)
		wantErr   bool
		errMsg    string
		wantValue string
		wantOk    bool
	}{
		{
			name: "successful load",
			mockSetup: func(mockStore *MockIStore) {
				mockStore.EXPECT().
					Load(gomock.Any(), "test-id").
					Return(map[string]string{"token": "abc"}, nil)
			},
			wantValue: "abc",
			wantOk:    true,
		},
		{
			name: "missing session",
			mockSetup: func(mockStore *MockIStore) {
				mockStore.EXPECT().
					Load(gomock.Any(), "test-id").
					Return(nil, nil)
			},
		},
		{
			name: "load error",
			mockSetup: func(mockStore *MockIStore) {
				mockStore.EXPECT().
					Load(gomock.Any(), "test-id").
					Return(nil, errors.New("load error"))
			},
			wantErr: true,
			errMsg:  "load error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockStore := NewMockIStore(ctrl)
			tt.mockSetup(mockStore)

			s, _ := New("test-id", mockStore)
			err := s.Load(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)

			v, ok := s.Lookup("token")
			assert.Equal(t, tt.wantValue, v)
			assert.Equal(t, tt.wantOk, ok)

			// 已載入時不再讀取儲存層
			assert.NoError(t, s.Load(context.Background()))
		})
	}
}

func TestSession_LocalChangesSurviveLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := NewMockIStore(ctrl)
	mockStore.EXPECT().
		Load(gomock.Any(), "test-id").
		Return(map[string]string{"token": "stored", "other": "kept"}, nil)

	s, _ := New("test-id", mockStore)
	s.Set("token", "local")
	assert.NoError(t, s.Load(context.Background()))

	v, _ := s.Lookup("token")
	assert.Equal(t, "local", v)
	v, _ = s.Lookup("other")
	assert.Equal(t, "kept", v)
}

func TestSession_Save(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Session)
		mockSetup func(*MockIStore)
		wantErr   bool
		errMsg    string
	}{
		{
			name:   "set then save",
			mutate: func(s *Session) { s.Set("token", "value") },
			mockSetup: func(mockStore *MockIStore) {
				mockStore.EXPECT().
					Save(gomock.Any(), "test-id", map[string]string{"token": "value"}).
					Return(nil)
			},
		},
		{
			name:   "clear then save",
			mutate: func(s *Session) { s.Clear() },
			mockSetup: func(mockStore *MockIStore) {
				mockStore.EXPECT().
					Save(gomock.Any(), "test-id", map[string]string{}).
					Return(nil)
			},
		},
		{
			name:   "save error",
			mutate: func(s *Session) { s.Set("token", "value") },
			mockSetup: func(mockStore *MockIStore) {
				mockStore.EXPECT().
					Save(gomock.Any(), "test-id", gomock.Any()).
					Return(errors.New("save error"))
			},
			wantErr: true,
			errMsg:  "save error",
		},
		{
			name:      "unchanged session is not written",
			mutate:    func(s *Session) {},
			mockSetup: func(mockStore *MockIStore) {},
		},
		{
			name:      "deleting a missing key is not a change",
			mutate:    func(s *Session) { s.Delete("missing") },
			mockSetup: func(mockStore *MockIStore) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockStore := NewMockIStore(ctrl)
			tt.mockSetup(mockStore)

			s, _ := New("test-id", mockStore)
			tt.mutate(s)
			err := s.Save(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
			// 第二次儲存沒有變動
			assert.NoError(t, s.Save(context.Background()))
		})
	}
}

func TestSession_SetDeleteLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, _ := New("test-id", NewMockIStore(ctrl))

	_, ok := s.Lookup("key1")
	assert.False(t, ok)

	s.Set("key1", "value1")
	s.Set("key2", "value2")
	s.Set("key1", "new value")
	v, ok := s.Lookup("key1")
	assert.True(t, ok)
	assert.Equal(t, "new value", v)

	s.Delete("key1")
	_, ok = s.Lookup("key1")
	assert.False(t, ok)

	s.Clear()
	_, ok = s.Lookup("key2")
	assert.False(t, ok)
}
