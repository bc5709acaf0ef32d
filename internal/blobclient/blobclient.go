// Package blobclient implements the blob-fetch client (spec §4.5): a
// single GET against the configured storage upstream, 60s timeout,
// grounded on the original source's storage_communication.retrieve_data.
package blobclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"preview-gateway/internal/config"
)

const fetchTimeout = 60 * time.Second

// OwnerServiceTag is the closed set of storage types a Fingerprint can
// belong to (spec §3).
type OwnerServiceTag string

const (
	OwnerFiles OwnerServiceTag = "files"
	OwnerChats OwnerServiceTag = "chats"
)

// Fingerprint is the opaque identifier triple used only to construct the
// blob-store request; it is never persisted (spec §3).
type Fingerprint struct {
	Identifier string
	Version    int
	Owner      OwnerServiceTag
}

// Result carries the raw response: the status code for classification by
// the dispatcher (spec §9: "dispatcher sole site mapping Err to wire")
// and the body when the fetch succeeded.
type Result struct {
	StatusCode int
	Body       []byte
}

// Client fetches blobs from the configured storage upstream.
type Client struct {
	upstream config.Upstream
	http     *http.Client
}

// New builds a Client bound to the given storage upstream configuration.
func New(upstream config.Upstream) *Client {
	return &Client{
		upstream: upstream,
		http:     &http.Client{Timeout: fetchTimeout},
	}
}

// TransportError is returned when the request could not complete at all
// (timeout, connection refused, DNS failure, ...) — the dispatcher maps
// any non-nil error from Fetch to StorageUnavailable/502 (spec §4.5).
type TransportError struct {
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// Fetch issues one GET against
// {protocol}://{ip}:{port}/{download_api}?node={id}&version={v}&type={files|chats}.
func (c *Client) Fetch(ctx context.Context, fp Fingerprint) (*Result, error) {
	reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/%s", c.upstream.BaseURL(), c.upstream.DownloadAPI)
	q := url.Values{}
	q.Set("node", fp.Identifier)
	q.Set("version", strconv.Itoa(fp.Version))
	q.Set("type", string(fp.Owner))

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		var netErr net.Error
		timeout := false
		if ok := isNetError(err, &netErr); ok {
			timeout = netErr.Timeout()
		}
		return nil, &TransportError{Timeout: timeout, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	return &Result{StatusCode: resp.StatusCode, Body: body}, nil
}

func isNetError(err error, target *net.Error) bool {
	for err != nil {
		if ne, ok := err.(net.Error); ok {
			*target = ne
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

// Probe issues a GET against the storage health-check path with a 5s
// timeout (spec §4.8), returning true iff the response is 2xx.
func (c *Client) Probe(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	u := fmt.Sprintf("%s/%s", c.upstream.BaseURL(), c.upstream.HealthCheck)
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, u, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
