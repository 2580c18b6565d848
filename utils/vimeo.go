package utils

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	vimeoDigits = regexp.MustCompile(`^\d+$`)
	vimeoURL    = regexp.MustCompile(`vimeo\.com/(?:video/)?(\d+)`)
)

// ExtractVimeoID accepts a bare ID or a vimeo.com / player.vimeo.com URL.
// Input it cannot parse is returned trimmed.
func ExtractVimeoID(input string) string {
	input = strings.TrimSpace(input)
	if vimeoDigits.MatchString(input) {
		return input
	}
	if m := vimeoURL.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	return input
}

// VimeoClient looks up video metadata through the public oEmbed endpoint.
type VimeoClient struct {
	client   *resty.Client
	endpoint string
}

func NewVimeoClient(endpoint string) *VimeoClient {
	return &VimeoClient{
		client:   resty.New().SetTimeout(5 * time.Second).SetRetryCount(1),
		endpoint: endpoint,
	}
}

type oEmbedResponse struct {
	Title    string `json:"title"`
	Duration int    `json:"duration"` // seconds
}

// DurationMinutes returns the video length rounded up to whole minutes.
func (v *VimeoClient) DurationMinutes(ctx context.Context, videoID string) (int, error) {
	var body oEmbedResponse
	resp, err := v.client.R().
		SetContext(ctx).
		SetQueryParam("url", "https://vimeo.com/"+videoID).
		SetResult(&body).
		Get(v.endpoint)
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("vimeo oembed: status %d", resp.StatusCode())
	}
	return (body.Duration + 59) / 60, nil
}
