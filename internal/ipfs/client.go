// Package ipfs uploads platform assets (audio, cover art, metadata
// documents) to an IPFS node's HTTP API.
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// AddResult is the outcome of one upload.
type AddResult struct {
	Hash string
	Size uint64
}

// Uploader stores a file off-chain and returns its content hash.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (*AddResult, error)
}

// Client talks to an IPFS node's /api/v0/add endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the node at baseURL (e.g. "http://127.0.0.1:5001").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 2 * time.Minute, // audio files can be large
		},
	}
}

// Upload adds a file to the node and returns its CID and size.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (*AddResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("buffering %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v0/add", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("uploading %s: node returned %d: %s", name, resp.StatusCode, body)
	}

	var out struct {
		Name string `json:"Name"`
		Hash string `json:"Hash"`
		Size string `json:"Size"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("parsing add response: %w", err)
	}
	if out.Hash == "" {
		return nil, fmt.Errorf("node returned no hash for %s", name)
	}

	size, _ := strconv.ParseUint(out.Size, 10, 64)
	return &AddResult{Hash: out.Hash, Size: size}, nil
}
