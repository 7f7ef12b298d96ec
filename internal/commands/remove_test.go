package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
	"ocl/internal/mocks"
	"ocl/internal/testutil"
)

type mockSessionRemover struct {
	mock.Mock
}

func (m *mockSessionRemover) Remove(ctx context.Context, cluster domain.Cluster) error {
	args := m.Called(ctx, cluster)
	return args.Error(0)
}

func TestRemoveCommand_Execute(t *testing.T) {
	tests := []struct {
		name      string
		req       RemoveRequest
		setupMock func(repo *mocks.MockConfigRepository, sessions *mockSessionRemover)
		wantErr   string
	}{
		{
			name: "removes cluster",
			req:  RemoveRequest{Name: "lab"},
			setupMock: func(repo *mocks.MockConfigRepository, _ *mockSessionRemover) {
				repo.On("RemoveCluster", mock.Anything, "lab").Return(nil)
			},
		},
		{
			name: "removes cluster and session",
			req:  RemoveRequest{Name: "lab", PurgeSession: true},
			setupMock: func(repo *mocks.MockConfigRepository, sessions *mockSessionRemover) {
				repo.On("RemoveCluster", mock.Anything, "lab").Return(nil)
				sessions.On("Remove", mock.Anything, domain.Cluster{Name: "lab"}).Return(nil)
			},
		},
		{
			name: "repository error",
			req:  RemoveRequest{Name: "lab", PurgeSession: true},
			setupMock: func(repo *mocks.MockConfigRepository, _ *mockSessionRemover) {
				repo.On("RemoveCluster", mock.Anything, "lab").Return(errors.New("cluster lab not found in configuration"))
			},
			wantErr: "failed to remove cluster",
		},
		{
			name: "session error",
			req:  RemoveRequest{Name: "lab", PurgeSession: true},
			setupMock: func(repo *mocks.MockConfigRepository, sessions *mockSessionRemover) {
				repo.On("RemoveCluster", mock.Anything, "lab").Return(nil)
				sessions.On("Remove", mock.Anything, mock.Anything).Return(errors.New("permission denied"))
			},
			wantErr: "failed to remove session of lab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockConfigRepository(t)
			sessions := &mockSessionRemover{}
			sessions.Test(t)
			tt.setupMock(repo, sessions)

			err := NewRemoveCommand(repo, sessions, testutil.Logger()).Execute(context.Background(), tt.req)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			sessions.AssertExpectations(t)
		})
	}
}

func TestRemoveCommand_Execute_RequiresName(t *testing.T) {
	cmd := NewRemoveCommand(mocks.NewMockConfigRepository(t), &mockSessionRemover{}, testutil.Logger())

	err := cmd.Execute(context.Background(), RemoveRequest{})
	assert.True(t, cerrors.IsValidation(err))
}
