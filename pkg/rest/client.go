// Package rest is a client of the collection API.
//
// Every call returns a Result, which is either data or a *apierr.Failure.
//
// Request metrics are off by default. Pass WithRegisterer to NewClient to
// count requests by resource, method and outcome, and to observe durations
// of requests which got responses.
package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	apierr "github.com/opst/chronodemica/pkg/api/errors"
	"github.com/opst/chronodemica/pkg/config/profiles"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// Client talks to the collection API.
//
// Each call is independent. Client holds no data across calls,
// and it is safe for concurrent use.
type Client struct {
	httpclient *http.Client
	api        string
	limiter    *rate.Limiter
	logger     *log.Logger
	registerer prometheus.Registerer
	metrics    *metrics
}

type Option func(*Client) *Client

// WithLogger sets logger for failed requests.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) *Client {
		c.logger = l
		return c
	}
}

// WithHTTPClient replaces http.Client. CA certs in the profile are added to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) *Client {
		c.httpclient = hc
		return c
	}
}

// WithRegisterer enables request metrics, registered to reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) *Client {
		c.registerer = reg
		return c
	}
}

// create new client for Profile
//
// # Args
//
// - *profiles.Profile
//
// - ...Option
//
// # Return
//
// - *Client: created client
//
// - error: If given profile is invalid, ErrProfileInvalid is returned.
func NewClient(prof *profiles.Profile, options ...Option) (*Client, error) {
	if err := prof.Verify(); err != nil {
		return nil, err
	}

	c := &Client{
		httpclient: new(http.Client),
		api:        strings.TrimSuffix(prof.ApiRoot, "/"),
		logger:     log.New(io.Discard, "", log.LstdFlags),
	}
	for _, o := range options {
		c = o(c)
	}

	hc := *c.httpclient
	c.httpclient = &hc
	if prof.Timeout > 0 {
		c.httpclient.Timeout = prof.Timeout
	}
	if prof.Cert.CA != "" {
		hc, err := trustCa(c.httpclient, []string{prof.Cert.CA})
		if err != nil {
			return nil, err
		}
		c.httpclient = hc
	}
	if 0 < prof.RequestsPerSecond {
		burst := int(prof.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(prof.RequestsPerSecond), burst)
	}
	if c.registerer != nil {
		m, err := newMetrics(c.registerer)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}

	return c, nil
}

// build URL with path
func (c *Client) apipath(path ...string) string {
	trimmed := make([]string, 0, len(path)+1)
	trimmed = append(trimmed, c.api)
	for _, p := range path {
		trimmed = append(trimmed, strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/"))
	}
	return strings.Join(trimmed, "/")
}

func trustCa(hc *http.Client, cacerts []string) (*http.Client, error) {
	if len(cacerts) <= 0 {
		return hc, nil
	}

	if hc.Transport == nil {
		hc.Transport = http.DefaultTransport
	}

	tran, ok := hc.Transport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("failed to add ca cert")
	}
	tran = tran.Clone()

	tcc := tran.TLSClientConfig.Clone()
	if tcc == nil {
		tcc = &tls.Config{}
	}

	rootcas := tcc.RootCAs
	if rootcas == nil {
		rootcas = x509.NewCertPool()
		tcc.RootCAs = rootcas
	}
	for _, ca := range cacerts {
		bin, err := base64.StdEncoding.DecodeString(ca)
		if err != nil {
			return nil, err
		}

		if !rootcas.AppendCertsFromPEM(bin) {
			return nil, fmt.Errorf("failed to add cert")
		}
	}

	tran.TLSClientConfig = tcc
	hc.Transport = tran
	return hc, nil
}

// request is a call to the collection API.
type request struct {
	method string

	// path segments under api root. The first one names the resource.
	path []string

	query url.Values

	// request body. nil means no body.
	body any
}

func (r request) resource() string {
	if len(r.path) == 0 {
		return ""
	}
	return strings.SplitN(strings.TrimPrefix(r.path[0], "/"), "/", 2)[0]
}

// do sends req and reads its response as JSON.
//
// Non-JSON responses with 2xx status are read as an empty object.
func (c *Client) do(ctx context.Context, req request) Result[json.RawMessage] {
	u := c.apipath(req.path...)
	if len(req.query) != 0 {
		u += "?" + req.query.Encode()
	}
	title := req.method + " " + u

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.transportFailure(req, title, err)
		}
	}

	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return Err[json.RawMessage](apierr.NewFailure(
				apierr.Unexpected,
				apierr.WithVerbose(title+": cannot encode request"),
				apierr.WithCause(err),
			))
		}
		body = bytes.NewReader(buf)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return Err[json.RawMessage](apierr.NewFailure(
			apierr.Unexpected, apierr.WithVerbose(title), apierr.WithCause(err),
		))
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("X-Request-Id", uuid.NewString())

	started := time.Now()
	resp, err := c.httpclient.Do(hreq)
	if err != nil {
		return c.transportFailure(req, title, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	c.metrics.observe(req, strconv.Itoa(resp.StatusCode), time.Since(started))
	if err != nil {
		return c.transportFailure(req, title, err)
	}

	if resp.StatusCode < 200 || 299 < resp.StatusCode {
		category := apierr.Classify(resp.StatusCode, payload)
		f := apierr.NewFailure(
			category,
			apierr.WithStatus(resp.StatusCode),
			apierr.WithVerbose(fmt.Sprintf("%s: %s", title, strings.TrimSpace(string(payload)))),
		)
		c.logger.Printf("%s: status code = %d (%s)", title, resp.StatusCode, category)
		return Err[json.RawMessage](f)
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return Ok(json.RawMessage("{}"))
	}
	if !json.Valid(payload) {
		c.logger.Printf("%s: response is not valid JSON", title)
		return Err[json.RawMessage](apierr.NewFailure(
			apierr.Unexpected,
			apierr.WithStatus(resp.StatusCode),
			apierr.WithVerbose(title+": response is not valid JSON"),
		))
	}
	return Ok(json.RawMessage(payload))
}

func (c *Client) transportFailure(req request, title string, err error) Result[json.RawMessage] {
	category, message := apierr.ClassifyNetwork(err)
	c.metrics.observe(req, category.String(), 0)
	c.logger.Printf("%s: %s", title, err)
	return Err[json.RawMessage](apierr.NewFailure(
		category,
		apierr.WithSummary(message),
		apierr.WithVerbose(title),
		apierr.WithCause(err),
	))
}

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	requests, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chrono",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Number of requests to the collection API, by resource, method and outcome.",
		},
		[]string{"resource", "method", "outcome"},
	))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chrono",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Duration of requests which got responses.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"resource", "method"},
	))
	if err != nil {
		return nil, err
	}
	return &metrics{requests: requests, duration: duration}, nil
}

// register c to reg. When the same collector is registered already, the existing one is returned.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// observe a request. duration 0 means no response.
func (m *metrics) observe(req request, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(req.resource(), req.method, outcome).Inc()
	if 0 < duration {
		m.duration.WithLabelValues(req.resource(), req.method).Observe(duration.Seconds())
	}
}
