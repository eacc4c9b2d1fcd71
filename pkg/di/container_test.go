package di

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/coincidence/pkg/api"
	"github.com/ssargent/coincidence/pkg/codec"
	"github.com/ssargent/coincidence/pkg/frequency"
)

func TestNewContainer(t *testing.T) {
	container := NewContainer()
	assert.NotNil(t, container.GetServerFactory())
	assert.NotNil(t, container.GetServerFactory().CreateServerStarter())
}

func TestContainer_OpenHistory(t *testing.T) {
	container := NewContainer()

	store, err := container.OpenHistory(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	entry, err := store.Put(context.Background(), codec.NewRecord("test", 4, frequency.Count([]byte("aaaa"))))
	require.NoError(t, err)

	got, err := store.Get(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 26.0, got.Analysis.Index)
}

func TestContainer_SetHistoryOpener(t *testing.T) {
	container := NewContainer()
	wantErr := errors.New("no history here")
	container.SetHistoryOpener(func(dir string) (HistoryStore, error) {
		return nil, wantErr
	})

	_, err := container.OpenHistory("/anywhere")
	assert.ErrorIs(t, err, wantErr)
}

type stubFactory struct{ api.ServerFactory }

func TestContainer_SetServerFactory(t *testing.T) {
	container := NewContainer()
	factory := &stubFactory{}
	container.SetServerFactory(factory)
	assert.Same(t, factory, container.GetServerFactory())
}
