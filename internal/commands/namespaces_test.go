package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ocl/internal/domain"
	"ocl/internal/mocks"
	"ocl/internal/testutil"
)

func testNamespaces() []domain.Namespace {
	return []domain.Namespace{
		{Name: "zeta", Cluster: domain.Cluster{Name: "prod1"}},
		{Name: "alpha", Cluster: domain.Cluster{Name: "stage1"}},
		{Name: "alpha", Cluster: domain.Cluster{Name: "prod1"}},
	}
}

func TestNamespacesCommand_Execute_SortsByNameThenCluster(t *testing.T) {
	lister := mocks.NewMockNamespaceLister(t)
	lister.On("ListNamespaces", mock.Anything).Return(testNamespaces(), nil)

	namespaces, err := NewNamespacesCommand(lister, testutil.Logger()).Execute(context.Background(), NamespacesRequest{})
	require.NoError(t, err)
	require.Len(t, namespaces, 3)

	assert.Equal(t, "alpha", namespaces[0].Name)
	assert.Equal(t, "prod1", namespaces[0].Cluster.Name)
	assert.Equal(t, "alpha", namespaces[1].Name)
	assert.Equal(t, "stage1", namespaces[1].Cluster.Name)
	assert.Equal(t, "zeta", namespaces[2].Name)
}

func TestNamespacesCommand_Execute_ForCluster(t *testing.T) {
	lister := mocks.NewMockNamespaceLister(t)
	lister.On("ListNamespaces", mock.Anything).Return(testNamespaces(), nil)

	namespaces, err := NewNamespacesCommand(lister, testutil.Logger()).Execute(context.Background(), NamespacesRequest{Cluster: "prod1"})
	require.NoError(t, err)
	require.Len(t, namespaces, 2)
	for _, ns := range namespaces {
		assert.Equal(t, "prod1", ns.Cluster.Name)
	}
}

func TestNamespacesCommand_Execute_Error(t *testing.T) {
	lister := mocks.NewMockNamespaceLister(t)
	lister.On("ListNamespaces", mock.Anything).Return(nil, errors.New("catalog down"))

	_, err := NewNamespacesCommand(lister, testutil.Logger()).Execute(context.Background(), NamespacesRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get namespaces")
}
