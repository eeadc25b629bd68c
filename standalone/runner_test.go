package standalone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/researchaccelerator-hub/ytstats/client"
	"github.com/researchaccelerator-hub/ytstats/common"
	"github.com/researchaccelerator-hub/ytstats/config"
	"github.com/researchaccelerator-hub/ytstats/model/youtube"
	"github.com/researchaccelerator-hub/ytstats/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient answers every video and channel with fixed statistics.
type stubClient struct {
	disconnected bool
	videoIDs     []string
}

func (s *stubClient) Connect(ctx context.Context) error { return nil }

func (s *stubClient) Disconnect(ctx context.Context) error {
	s.disconnected = true
	return nil
}

func (s *stubClient) ListVideos(ctx context.Context, req client.ListRequest) (*youtube.Page[youtube.VideoItem], error) {
	s.videoIDs = append(s.videoIDs, req.IDs...)
	page := &youtube.Page[youtube.VideoItem]{}
	for _, id := range req.IDs {
		page.Items = append(page.Items, youtube.VideoItem{
			ID:         id,
			Title:      "Video " + id,
			Statistics: youtube.EngagementStatistics{ViewCount: "10", LikeCount: "2"},
		})
	}
	return page, nil
}

func (s *stubClient) ListPlaylistItems(ctx context.Context, req client.ListRequest) (*youtube.Page[youtube.PlaylistItem], error) {
	return &youtube.Page[youtube.PlaylistItem]{}, nil
}

func (s *stubClient) ListPlaylists(ctx context.Context, req client.ListRequest) (*youtube.Page[youtube.Playlist], error) {
	return &youtube.Page[youtube.Playlist]{}, nil
}

func (s *stubClient) ListChannels(ctx context.Context, req client.ListRequest) (*youtube.Page[youtube.ChannelItem], error) {
	page := &youtube.Page[youtube.ChannelItem]{}
	for _, id := range req.IDs {
		page.Items = append(page.Items, youtube.ChannelItem{
			ID:         id,
			Statistics: youtube.ChannelStatistics{ViewCount: "100", SubscriberCount: "5"},
		})
	}
	return page, nil
}

type testRunner struct {
	*Runner
	stub     *stubClient
	stdout   *bytes.Buffer
	settings client.Settings
}

func newTestRunner() *testRunner {
	tr := &testRunner{stub: &stubClient{}, stdout: &bytes.Buffer{}}
	logger := zerolog.Nop()
	tr.Runner = &Runner{
		NewClient: func(ctx context.Context, settings client.Settings) (client.Client, error) {
			tr.settings = settings
			return tr.stub, nil
		},
		Storage: storage.NewLocalStorageProvider(),
		Stdout:  tr.stdout,
		Logger:  &logger,
		Now:     func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) },
	}
	return tr
}

func options(mutate func(*config.Options)) *config.Options {
	opts := config.DefaultOptions()
	opts.Token = "key"
	if mutate != nil {
		mutate(opts)
	}
	return opts
}

func TestRun_JSONToStdout(t *testing.T) {
	tr := newTestRunner()

	res, err := tr.Run(context.Background(), Request{
		Videos: []string{"abc123,https://youtu.be/def456"},
		Options: options(func(o *config.Options) {
			o.Format = "json"
			o.IncludeTotal = true
			o.RequestsPerSecond = 2
		}),
	})
	require.NoError(t, err)

	assert.Len(t, res.Stats.Videos, 2)
	assert.Equal(t, []string{"abc123", "def456"}, tr.stub.videoIDs)
	assert.True(t, tr.stub.disconnected)
	assert.Equal(t, "key", tr.settings.APIKey)
	assert.Equal(t, float64(2), tr.settings.RequestsPerSecond)
	assert.Equal(t, 30*time.Second, tr.settings.RequestTimeout)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(tr.stdout.Bytes(), &decoded))
	total := decoded["total"].(map[string]interface{})
	assert.Equal(t, float64(20), total["views"])
	assert.Equal(t, byte('\n'), tr.stdout.Bytes()[tr.stdout.Len()-1])
}

func TestRun_MergesConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "stats.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("videos:\n  - fromconfig\n"), 0644))
	idsPath := filepath.Join(dir, "ids.txt")
	require.NoError(t, os.WriteFile(idsPath, []byte("# comment\nfromfile\n\n"), 0644))

	tr := newTestRunner()
	res, err := tr.Run(context.Background(), Request{
		ConfigPath: cfgPath,
		Videos:     []string{"fromflag"},
		IDsFile:    idsPath,
		Channels:   []string{"UCx"},
		Options:    options(nil),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"fromconfig", "fromflag", "fromfile"}, tr.stub.videoIDs)
	require.Len(t, res.Stats.Channels, 1)
	assert.Contains(t, tr.stdout.String(), "Videos:")
	assert.Contains(t, tr.stdout.String(), "Channels:")
}

func TestRun_UsesDefaultConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultConfigFile), []byte("channels:\n  - UCdefault\n"), 0644))
	t.Chdir(dir)

	tr := newTestRunner()
	res, err := tr.Run(context.Background(), Request{Options: options(nil)})
	require.NoError(t, err)

	require.Len(t, res.Stats.Channels, 1)
	assert.Equal(t, "UCdefault", res.Stats.Channels[0].ID)
}

func TestRun_AppendsToOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "stats.csv")
	tr := newTestRunner()
	req := Request{
		Videos: []string{"abc123"},
		Options: options(func(o *config.Options) {
			o.Format = "csv"
			o.Output = out
			o.Append = true
		}),
	}

	_, err := tr.Run(context.Background(), req)
	require.NoError(t, err)
	_, err = tr.Run(context.Background(), req)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("---- 3/5/2024, 2:07:09 PM")))
	assert.Equal(t, 2, bytes.Count(data, []byte("abc123,https://youtu.be/abc123")))
	assert.Empty(t, tr.stdout.String())
}

func TestRun_Preconditions(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"missing token", Request{Videos: []string{"abc"}, Options: options(func(o *config.Options) { o.Token = "" })}},
		{"append to json", Request{Videos: []string{"abc"}, Options: options(func(o *config.Options) {
			o.Format = "json"
			o.Output = "out.json"
			o.Append = true
		})}},
		{"nothing to fetch", Request{ConfigPath: "", Options: options(nil)}},
		{"missing config", Request{ConfigPath: filepath.Join(t.TempDir(), "nope.yml"), Options: options(nil)}},
		{"missing ids file", Request{IDsFile: filepath.Join(t.TempDir(), "nope.txt"), Options: options(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			tr := newTestRunner()

			_, err := tr.Run(context.Background(), tt.req)
			assert.ErrorIs(t, err, common.ErrPrecondition)
			assert.Nil(t, tr.stub.videoIDs)
			assert.Empty(t, tr.stdout.String())
		})
	}
}

func TestRun_ClientFactoryFailure(t *testing.T) {
	tr := newTestRunner()
	boom := errors.New("boom")
	tr.NewClient = func(ctx context.Context, settings client.Settings) (client.Client, error) {
		return nil, boom
	}

	_, err := tr.Run(context.Background(), Request{Videos: []string{"abc"}, Options: options(nil)})
	assert.ErrorIs(t, err, boom)
}
