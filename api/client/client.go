// Package client queries a running dDoc server for the hello message.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ValentinKolb/dDoc/api/schema"
	"github.com/ValentinKolb/dDoc/lib/hello"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("api")

// Config configures the client.
type Config struct {
	// Endpoint is the URL of the GraphQL endpoint, e.g. http://localhost:8000/graphql
	Endpoint      string
	TimeoutSecond int
	// RetryCount is the number of attempts per request (at least one)
	RetryCount int
}

// Client sends GraphQL queries over HTTP.
type Client struct {
	endpoint   *url.URL
	client     *http.Client
	retryCount int
}

// NewClient validates the configuration and creates a client.
func NewClient(config Config) (*Client, error) {
	endpoint, err := url.Parse(config.Endpoint)
	if err != nil {
		return nil, err
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", config.Endpoint)
	}

	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: time.Duration(config.TimeoutSecond) * time.Second,
		},
		retryCount: max(config.RetryCount, 1),
	}, nil
}

// graphqlResponse is the part of a GraphQL response the client understands
type graphqlResponse struct {
	Data struct {
		Hello *hello.Message `json:"hello"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchHello queries the hello message.
func (c *Client) FetchHello(ctx context.Context) (hello.Message, error) {
	reqBody, err := json.Marshal(map[string]string{"query": schema.HelloQuery})
	if err != nil {
		return hello.Message{}, err
	}

	respBody, err := c.send(ctx, reqBody)
	if err != nil {
		return hello.Message{}, err
	}

	var resp graphqlResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return hello.Message{}, fmt.Errorf("invalid graphql response: %w", err)
	}
	if len(resp.Errors) > 0 {
		return hello.Message{}, fmt.Errorf("graphql error: %s", resp.Errors[0].Message)
	}
	if resp.Data.Hello == nil {
		return hello.Message{}, errors.New("graphql response contains no hello message")
	}
	return *resp.Data.Hello, nil
}

// send posts the body to the endpoint, transport errors are retried
func (c *Client) send(ctx context.Context, body []byte) ([]byte, error) {
	var lastErr error
	for i := 0; i < c.retryCount; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			Logger.Debugf("request to %s failed (%d/%d): %v", c.endpoint, i+1, c.retryCount, err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil {
			Logger.Errorf("failed to close response body: %v", closeErr)
		}
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("http error: %s", resp.Status)
		}
		return respBody, nil
	}
	return nil, lastErr
}
