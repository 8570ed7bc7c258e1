// Package registry proxies the Docker Hub API: anonymous token issuance and
// image search on behalf of authenticated users.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

const (
	defaultTokenURL  = "https://auth.docker.io/token"
	defaultSearchURL = "https://hub.docker.com/api/search/v4"

	searchPageSize = 20
)

// Client talks to Docker Hub with pooled retryable http clients.
type Client struct {
	tokenURL  string
	searchURL string
}

func NewClient() *Client {
	return &Client{
		tokenURL:  defaultTokenURL,
		searchURL: defaultSearchURL,
	}
}

// Token fetches an anonymous registry token.
func (c *Client) Token(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tokenURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "problem creating token request")
	}

	client := utility.GetDefaultHTTPRetryableClient()
	defer utility.PutHTTPClient(client)

	resp, err := client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "problem requesting registry token")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", errors.Errorf("registry token request failed [%d]: %s", resp.StatusCode, string(body))
	}

	payload := struct {
		Token string `json:"token"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", errors.Wrap(err, "problem reading registry token")
	}

	return payload.Token, nil
}

// Search queries the image search API, forwarding the caller's authorization
// header when one is set, and returns the raw result document.
func (c *Client) Search(ctx context.Context, text, authorization string) (json.RawMessage, error) {
	searchURL := fmt.Sprintf("%s?query=%s&from=0&size=%d", c.searchURL, url.QueryEscape(text), searchPageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "problem creating search request")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	client := utility.GetDefaultHTTPRetryableClient()
	defer utility.PutHTTPClient(client)

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "problem searching registry")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "problem reading search results")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("registry search failed [%d]: %s", resp.StatusCode, string(body))
	}

	return json.RawMessage(body), nil
}
