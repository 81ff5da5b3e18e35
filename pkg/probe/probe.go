// Package probe issues read-only requests against the emulated cloud
// services and classifies the outcome. Probes are observation only: they
// carry no shared state and are safe to fire concurrently while a chaos
// scenario is active.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Status classifies a probe outcome.
type Status string

const (
	StatusOK        Status = "ok"
	StatusThrottled Status = "throttled"
	StatusOutage    Status = "outage"
	StatusTimeout   Status = "timeout"
	StatusError     Status = "error"
)

// Result is the outcome of a single probe.
type Result struct {
	Status   Status
	HTTPCode int
	Latency  time.Duration
	Err      error
}

// Func is a single observation request. Implementations must be safe for
// concurrent use.
type Func func(ctx context.Context) Result

// Prober issues probes against one emulator endpoint.
type Prober struct {
	baseURL    string
	region     string
	httpClient *http.Client
}

// Option configures a Prober.
type Option func(*Prober)

// WithRegion scopes probes to a region. The emulator routes requests by the
// credential scope of the Authorization header, so the region is encoded
// there the way a signing SDK would.
func WithRegion(region string) Option {
	return func(p *Prober) {
		p.region = region
	}
}

// WithTimeout sets the per-probe HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Prober) {
		p.httpClient.Timeout = timeout
	}
}

// New creates a Prober for the given emulator base URL.
func New(baseURL string, opts ...Option) *Prober {
	p := &Prober{
		baseURL: baseURL,
		region:  "us-east-1",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// S3ListBuckets probes the S3 service root.
func (p *Prober) S3ListBuckets(ctx context.Context) Result {
	return p.do(ctx, http.MethodGet, "/", "s3", nil)
}

// S3ListBucket probes a single S3 bucket listing.
func (p *Prober) S3ListBucket(ctx context.Context, bucket string) Result {
	return p.do(ctx, http.MethodGet, "/"+bucket, "s3", nil)
}

// DynamoDBListTables probes the DynamoDB control plane.
func (p *Prober) DynamoDBListTables(ctx context.Context) Result {
	h := http.Header{}
	h.Set("X-Amz-Target", "DynamoDB_20120810.ListTables")
	h.Set("Content-Type", "application/x-amz-json-1.0")
	return p.do(ctx, http.MethodPost, "/", "dynamodb", h)
}

// LambdaListFunctions probes the Lambda control plane.
func (p *Prober) LambdaListFunctions(ctx context.Context) Result {
	return p.do(ctx, http.MethodGet, "/2015-03-31/functions", "lambda", nil)
}

// SQSListQueues probes the SQS control plane.
func (p *Prober) SQSListQueues(ctx context.Context) Result {
	h := http.Header{}
	h.Set("X-Amz-Target", "AmazonSQS.ListQueues")
	h.Set("Content-Type", "application/x-amz-json-1.0")
	return p.do(ctx, http.MethodPost, "/", "sqs", h)
}

// ForService returns the probe for a named service, or a generic S3 probe
// for services without a dedicated one.
func (p *Prober) ForService(service string) Func {
	switch service {
	case "dynamodb":
		return p.DynamoDBListTables
	case "lambda":
		return p.LambdaListFunctions
	case "sqs":
		return p.SQSListQueues
	default:
		return p.S3ListBuckets
	}
}

// URL probes an arbitrary URL with a GET request.
func (p *Prober) URL(ctx context.Context, rawURL string) Result {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{Status: StatusError, Err: err}
	}
	return p.finish(req, start)
}

func (p *Prober) do(ctx context.Context, method, path, service string, header http.Header) Result {
	start := time.Now()
	var body io.Reader
	if method == http.MethodPost {
		body = strings.NewReader("{}")
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return Result{Status: StatusError, Err: err}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Authorization", p.authHeader(service))
	return p.finish(req, start)
}

func (p *Prober) finish(req *http.Request, start time.Time) Result {
	resp, err := p.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		return Result{Status: classifyErr(err), Latency: latency, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	return Result{
		Status:   classifyCode(resp.StatusCode),
		HTTPCode: resp.StatusCode,
		Latency:  latency,
	}
}

// authHeader builds a static SigV4-shaped Authorization header so the
// emulator scopes the request to the prober's region. No real signing is
// involved; the emulator only parses the credential scope.
func (p *Prober) authHeader(service string) string {
	return fmt.Sprintf(
		"AWS4-HMAC-SHA256 Credential=test/20250101/%s/%s/aws4_request, SignedHeaders=host, Signature=test",
		p.region, service,
	)
}

func classifyCode(code int) Status {
	switch {
	case code >= 200 && code < 400:
		return StatusOK
	case code == http.StatusTooManyRequests:
		return StatusThrottled
	case code == http.StatusGatewayTimeout:
		return StatusTimeout
	case code >= 500:
		return StatusOutage
	default:
		return StatusError
	}
}

func classifyErr(err error) Status {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return StatusTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return StatusTimeout
	}
	return StatusError
}
