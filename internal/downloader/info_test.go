package downloader

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediakit/internal/toolerr"
)

func TestVideoURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", VideoURL("dQw4w9WgXcQ"))
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", VideoURL("https://youtu.be/dQw4w9WgXcQ"))
	assert.Equal(t, "youtube.com/watch?v=x", VideoURL(" youtube.com/watch?v=x "))
}

func TestParseInfo_LastJSONLineWins(t *testing.T) {
	data := []byte("WARNING: something odd\n{\"id\":\"a\",\"title\":\"First\"}\nnot json\n{\"id\":\"b\",\"title\":\"Second\",\"duration\":12.5}\n")
	info, err := ParseInfo(data)
	require.NoError(t, err)
	assert.Equal(t, "b", info.ID)
	assert.Equal(t, 12.5, info.Duration)
}

func TestParseInfo_Errors(t *testing.T) {
	_, err := ParseInfo(nil)
	assert.Error(t, err)
	_, err = ParseInfo([]byte("no json here"))
	assert.Error(t, err)
}

func TestParsePlaylist(t *testing.T) {
	data := []byte(`{"id":"a","title":"One","url":"https://www.youtube.com/watch?v=a"}
garbage
{"id":"b","title":"Two"}
`)
	entries, err := ParsePlaylist(data)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "One", entries[0].Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=b", entries[1].URL)

	_, err = ParsePlaylist([]byte("garbage\n"))
	assert.Error(t, err)

	entries, err = ParsePlaylist(nil)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClientInfo(t *testing.T) {
	runner := &scriptedRunner{attempts: []attempt{{stdout: []string{`{"id":"abc","title":"Clip","uploader":"me"}`}}}}
	info, err := newTestClient(runner).VideoDetails(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Clip", info.Title)
	assert.Equal(t, []string{"--dump-json", "--no-playlist", "https://www.youtube.com/watch?v=abc"}, runner.specs[0].Args)
}

func TestClientInfo_ParseFailure(t *testing.T) {
	runner := &scriptedRunner{attempts: []attempt{{stdout: []string{"oops"}}}}
	_, err := newTestClient(runner).Info(context.Background(), "https://example.com/v")
	assert.True(t, errors.Is(err, toolerr.ErrParseFailed))
}

func TestClientQueryFailure(t *testing.T) {
	runner := &scriptedRunner{attempts: []attempt{{stderr: "ERROR: Private video", code: 1}}}
	_, err := newTestClient(runner).ListFormats(context.Background(), "https://example.com/v")
	assert.True(t, errors.Is(err, toolerr.ErrToolExecutionFailed))
	assert.Contains(t, err.Error(), "Private video")
}

func TestClientVersionAndPlaylist(t *testing.T) {
	runner := &scriptedRunner{attempts: []attempt{
		{stdout: []string{"2024.08.06"}},
		{stdout: []string{`{"id":"a","title":"One"}`}},
	}}
	c := newTestClient(runner)

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024.08.06", v)

	entries, err := c.Playlist(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"--flat-playlist", "--dump-json", "https://www.youtube.com/playlist?list=PL1"}, runner.specs[1].Args)
}
