// Package network implements the outbound HTTP tools. A non-2xx response
// is data, not a failure: the status, headers and body are returned
// verbatim and the tool only fails on transport errors or an explicit
// expectation mismatch.
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/atelierlabs/workbench/internal/tools"
	"github.com/atelierlabs/workbench/pkg/domain"
	"github.com/atelierlabs/workbench/pkg/registry"
	"github.com/atelierlabs/workbench/pkg/schema"
)

// maxBodyBytes caps how much of a response body is returned to the client.
const maxBodyBytes = 1 << 20

var methods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

// Toolset exposes the HTTP request tools.
type Toolset struct {
	client *http.Client
}

// New creates the network toolset. client may be nil.
func New(client *http.Client) *Toolset {
	if client == nil {
		client = &http.Client{}
	}
	return &Toolset{client: client}
}

// Register adds all network tools to reg.
func (t *Toolset) Register(reg *registry.Registry) error {
	return reg.RegisterAll(
		t.httpRequest(),
		t.apiTest(),
	)
}

type requestInput struct {
	Method         string            `json:"method"`
	URL            string            `json:"url"`
	Headers        map[string]string `json:"headers"`
	Body           string            `json:"body"`
	TimeoutSeconds float64           `json:"timeout_seconds"`
}

func requestFields() schema.Schema {
	return schema.Schema{
		schema.Enum("method", "HTTP method", methods...).Def("GET"),
		schema.String("url", "Request URL").Req(),
		schema.StringMap("headers", "Request headers"),
		schema.String("body", "Request body"),
		schema.Number("timeout_seconds", "Request deadline in seconds").Def(float64(30)),
	}
}

type response struct {
	status  int
	header  http.Header
	body    string
	latency time.Duration
}

func (t *Toolset) do(ctx context.Context, in requestInput) (*response, error) {
	parsed, err := url.Parse(in.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid url %q", in.URL)
	}

	if in.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(in.TimeoutSeconds*float64(time.Second)))
		defer cancel()
	}

	var body io.Reader
	if in.Body != "" {
		body = strings.NewReader(in.Body)
	}
	req, err := http.NewRequestWithContext(ctx, in.Method, in.URL, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range in.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &response{
		status:  resp.StatusCode,
		header:  resp.Header,
		body:    string(data),
		latency: time.Since(start),
	}, nil
}

func (r *response) render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %d\n", r.status)

	keys := make([]string, 0, len(r.header))
	for k := range r.header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, strings.Join(r.header[k], ", "))
	}

	b.WriteString("\n")
	b.WriteString(r.body)
	return b.String()
}

func (t *Toolset) httpRequest() registry.Definition {
	return registry.Definition{
		Name:        "http_request",
		Description: "Send one HTTP request and return status, headers and body. Non-2xx responses are returned, not raised.",
		Schema:      requestFields(),
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in requestInput
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}

			resp, err := t.do(ctx, in)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			return domain.TextResult(resp.render()), nil
		},
	}
}

func (t *Toolset) apiTest() registry.Definition {
	fields := append(requestFields(),
		schema.Number("expect_status", "Expected status code; when set, a mismatch fails the test"),
	)
	return registry.Definition{
		Name:        "api_test",
		Description: "Test an API endpoint. Reports latency and fails only when expect_status is given and does not match.",
		Schema:      fields,
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				requestInput `json:",squash"`
				ExpectStatus float64 `json:"expect_status"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}

			resp, err := t.do(ctx, in.requestInput)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			summary := fmt.Sprintf("Latency: %s\n%s", resp.latency.Round(time.Millisecond), resp.render())

			// An expectation is only enforced when the caller set one.
			if expect, given := args["expect_status"]; given {
				if want, ok := expect.(float64); ok && int(want) != resp.status {
					return domain.Errorf(domain.FailureExecution,
						"expected status %d, got %d\n%s", int(want), resp.status, summary), nil
				}
			}
			return domain.TextResult(summary), nil
		},
	}
}
