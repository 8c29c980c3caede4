// Package mediaclient downloads media files (order screenshots, payment
// proofs) from the Telegram Bot API file endpoints.
package mediaclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.telegram.org"

var (
	ErrFileNotFound       = errors.New("file not found")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrSomethingWentWrong = errors.New("something went wrong")
)

type Client struct {
	log    *slog.Logger
	client *resty.Client
	token  string
}

type fileResult struct {
	OK     bool `json:"ok"`
	Result struct {
		FileID   string `json:"file_id"`
		FilePath string `json:"file_path"`
		FileSize int64  `json:"file_size"`
	} `json:"result"`
}

func New(token string, opts ...Option) *Client {
	c := &Client{
		log:    slog.New(&slog.JSONHandler{}),
		client: newHTTPClient(defaultBaseURL),
		token:  token,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type Option func(c *Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.client = newHTTPClient(baseURL)
	}
}

func WithClient(client *resty.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// FilePath resolves a media file id to its path on the Telegram file
// storage.
func (c *Client) FilePath(ctx context.Context, fileID string) (string, error) {
	result := new(fileResult)

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(result).
		SetPathParams(map[string]string{
			"token": c.token,
		}).
		SetQueryParam("file_id", fileID).
		Get("/bot{token}/getFile")
	if err != nil {
		return "", fmt.Errorf("client.R: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest, http.StatusNotFound:
		return "", ErrFileNotFound
	case http.StatusTooManyRequests:
		return "", ErrTooManyRequests
	case http.StatusInternalServerError:
		return "", ErrSomethingWentWrong
	}

	if !result.OK || result.Result.FilePath == "" {
		return "", ErrFileNotFound
	}

	return result.Result.FilePath, nil
}

// Download fetches the raw bytes of a media file by its file id.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	filePath, err := c.FilePath(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("FilePath: %w", err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"token": c.token,
			"path":  filePath,
		}).
		Get("/file/bot{token}/{path}")
	if err != nil {
		return nil, fmt.Errorf("client.R: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrFileNotFound
	case http.StatusTooManyRequests:
		return nil, ErrTooManyRequests
	case http.StatusInternalServerError:
		return nil, ErrSomethingWentWrong
	default:
		return nil, fmt.Errorf("unexpected response status: %s", resp.Status())
	}

	return resp.Body(), nil
}
