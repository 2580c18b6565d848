package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVimeoID(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"123456", "123456"},
		{"  987 ", "987"},
		{"https://vimeo.com/76979871", "76979871"},
		{"https://player.vimeo.com/video/555?h=ab", "555"},
		{"not-a-video", "not-a-video"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractVimeoID(tc.in), tc.in)
	}
}

func TestVimeoDurationMinutes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("url") != "https://vimeo.com/42" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Intro","duration":601}`))
	}))
	defer srv.Close()

	client := NewVimeoClient(srv.URL)

	minutes, err := client.DurationMinutes(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 11, minutes)

	_, err = client.DurationMinutes(context.Background(), "7")
	assert.Error(t, err)
}
