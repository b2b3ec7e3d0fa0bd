package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		link    string
		want    string
		wantErr bool
	}{
		{name: "watch link", link: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch link with extra params", link: "https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s", want: "dQw4w9WgXcQ"},
		{name: "short link", link: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "shorts", link: "https://www.youtube.com/shorts/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "embed", link: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "live", link: "https://www.youtube.com/live/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "mobile host", link: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "music host", link: "https://music.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "surrounding whitespace", link: "  https://youtu.be/dQw4w9WgXcQ  ", want: "dQw4w9WgXcQ"},
		{name: "wrong host", link: "https://vimeo.com/123456", wantErr: true},
		{name: "no video id", link: "https://www.youtube.com/watch", wantErr: true},
		{name: "id too short", link: "https://youtu.be/short", wantErr: true},
		{name: "id with invalid characters", link: "https://youtu.be/bad!chars!!", wantErr: true},
		{name: "channel path", link: "https://www.youtube.com/@somechannel", wantErr: true},
		{name: "empty", link: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.link)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLink)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "snippet", r.URL.Query().Get("part"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		if r.URL.Query().Get("id") != "dQw4w9WgXcQ" {
			_, _ = w.Write([]byte(`{"items": []}`))
			return
		}

		_, _ = w.Write([]byte(`{
			"items": [{
				"snippet": {
					"title": "Talk title",
					"description": "Talk description",
					"thumbnails": {
						"default": {"url": "https://i.ytimg.com/vi/dQw4w9WgXcQ/default.jpg"},
						"high": {"url": "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"}
					}
				}
			}]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	meta, found, err := client.Lookup(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Talk title", meta.Title())
	assert.Equal(t, "Talk description", meta.Description())
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", meta.ThumbnailURL(), "prefers the highest-resolution thumbnail available")
}

func TestClient_Lookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	_, found, err := client.Lookup(context.Background(), "aaaaaaaaaaa")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_Lookup_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	_, found, err := client.Lookup(context.Background(), "dQw4w9WgXcQ")
	require.Error(t, err)
	assert.False(t, found)
}
