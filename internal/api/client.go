// Package api is the REST client for the sweet shop backend. All calls
// carry JSON bodies, a generated request id, and a bearer token when the
// session holds one.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TokenSource supplies the current bearer token, empty when no user is
// logged in.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logrus.FieldLogger
}

func New(baseURL string, timeout time.Duration, tokens TokenSource, log logrus.FieldLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens: tokens,
		log:    log,
	}
}

// do issues one request and decodes the JSON response into out when out is
// non-nil. Non-2xx replies become *APIError; transport failures are
// wrapped and propagated unchanged to the caller.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFrom(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s %s response", method, path)
	}
	return nil
}

// errorFrom turns a non-2xx reply into an *APIError, tolerating both the
// backend's JSON error shape and plain-text bodies.
func (c *Client) errorFrom(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	message := strings.TrimSpace(string(data))
	var body ErrorResponse
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			message = body.Message
		} else if body.Error != "" {
			message = body.Error
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	c.log.WithFields(logrus.Fields{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.Path,
	}).Debug("backend request failed")

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: message}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.Wrap(ErrNotFound, apiErr.Error())
	case http.StatusUnauthorized:
		return errors.Wrap(ErrUnauthorized, apiErr.Error())
	}
	return apiErr
}
