package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// apiClient is a thin wrapper over resty that turns non-2xx answers into errors.
type apiClient struct {
	http *resty.Client
}

func newAPIClient(base string) *apiClient {
	c := resty.New().
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetTimeout(2 * time.Minute)
	return &apiClient{http: c}
}

func (c *apiClient) get(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	return check(resp, err)
}

func (c *apiClient) postJSON(ctx context.Context, path string, body any) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post(path)
	return check(resp, err)
}

func (c *apiClient) postNDJSON(ctx context.Context, path string, r io.Reader) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-ndjson").
		SetBody(r).
		Post(path)
	return check(resp, err)
}

func check(resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}
