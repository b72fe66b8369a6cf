package qbittorrent

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	urls    []string
	options []map[string]string
	err     error
}

func (m *mockAPI) AddTorrentFromUrlCtx(ctx context.Context, url string, options map[string]string) error {
	if m.err != nil {
		return m.err
	}
	m.urls = append(m.urls, url)
	m.options = append(m.options, options)
	return nil
}

func (m *mockAPI) GetAppVersionCtx(ctx context.Context) (string, error) {
	return "v4.6.5", m.err
}

const magnet = "magnet:?xt=urn:btih:c9e15763f722f23e98a29decdfae341b98d53056"

func TestAddMagnet(t *testing.T) {
	t.Run("sends options", func(t *testing.T) {
		api := &mockAPI{}
		client := NewClientWithAPI(api, zerolog.Nop())

		err := client.AddMagnet(context.Background(), " "+magnet+" ", AddOptions{Category: "roulette", SavePath: "/downloads"})
		require.NoError(t, err)
		assert.Equal(t, []string{magnet}, api.urls)
		assert.Equal(t, map[string]string{"category": "roulette", "savepath": "/downloads"}, api.options[0])
	})

	t.Run("paused without category", func(t *testing.T) {
		api := &mockAPI{}
		client := NewClientWithAPI(api, zerolog.Nop())

		require.NoError(t, client.AddMagnet(context.Background(), magnet, AddOptions{Paused: true}))
		assert.Equal(t, map[string]string{"paused": "true"}, api.options[0])
	})

	t.Run("rejects non magnet", func(t *testing.T) {
		api := &mockAPI{}
		client := NewClientWithAPI(api, zerolog.Nop())

		err := client.AddMagnet(context.Background(), "https://example.com/file.torrent", AddOptions{})
		assert.ErrorIs(t, err, ErrInvalidMagnet)
		assert.Empty(t, api.urls)
	})

	t.Run("api failure", func(t *testing.T) {
		boom := errors.New("forbidden")
		client := NewClientWithAPI(&mockAPI{err: boom}, zerolog.Nop())
		assert.ErrorIs(t, client.AddMagnet(context.Background(), magnet, AddOptions{}), boom)
	})
}

func TestVersion(t *testing.T) {
	client := NewClientWithAPI(&mockAPI{}, zerolog.Nop())
	version, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v4.6.5", version)
}
