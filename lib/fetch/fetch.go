// Package fetch issues GET requests against the parliamentary endpoints, retrying
// transient failures with exponential backoff.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"parly-backend/internal/components/chrono"
	"parly-backend/internal/components/telemetry"
	"parly-backend/lib/restyutil"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"
)

const (
	report_client_get = "client.get"
)

const DefaultUserAgent = "ParlyDataCollector/1.0 (Educational Research; Parliamentary Data API)"

var meter = otel.Meter("parly.fetch")
var attemptCounter, _ = meter.Int64Counter("fetch_attempts")

// Outcome classifies a finished fetch.
type Outcome int

const (
	// OutcomeOK means Body holds a 2xx response.
	OutcomeOK Outcome = iota
	// OutcomeNotFound is a clean 404, there is nothing to ingest for the key.
	OutcomeNotFound
	// OutcomeNoData means a non-retryable status or exhausted retries.
	OutcomeNoData
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not-found"
	case OutcomeNoData:
		return "no-data"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

type Response struct {
	Body    []byte
	Outcome Outcome
	// Status is the status code of the last attempt, 0 if it never got a response.
	Status   int
	Attempts int
	// Waits holds the backoff slept before each retry.
	Waits []time.Duration
}

type Options struct {
	// MaxRetries is the total number of attempts, defaults to 3.
	MaxRetries int
	// Timeout of a single attempt, defaults to 30s.
	Timeout   time.Duration
	UserAgent string
	// RequestsPerSecond caps outbound requests for this client, 0 means unlimited.
	RequestsPerSecond float64
	Sleeper           chrono.Sleeper
	// InstrumentOutput receives request/response dumps while debug logging is on, can be nil.
	InstrumentOutput restyutil.InstrumentOutput
}

type Client struct {
	http       *resty.Client
	maxRetries int
	sleeper    chrono.Sleeper
	tel        telemetry.API
}

func NewClient(tel telemetry.API, opts Options) *Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Sleeper == nil {
		opts.Sleeper = chrono.NewStandardTime()
	}

	tel = telemetry.NewScopedAPI("fetch", tel)

	httpClient := resty.New()
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetHeader("accept", "application/xml, application/json;q=0.9, text/html;q=0.8")

	if opts.RequestsPerSecond > 0 {
		burst := int(math.Max(1, math.Ceil(opts.RequestsPerSecond)))
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	restyutil.InstrumentClient(httpClient, otel.Tracer("parly.fetch"), opts.InstrumentOutput)
	telemetry.InstrumentResty(httpClient, tel)

	return &Client{
		http:       httpClient,
		maxRetries: opts.MaxRetries,
		sleeper:    opts.Sleeper,
		tel:        tel,
	}
}

// Backoff returns how long to wait after a failed attempt (0-indexed). Rate limited
// responses (429) back off five times longer than timeouts and server errors.
func Backoff(attempt, status int) time.Duration {
	wait := time.Second * time.Duration(1<<attempt)
	if status == http.StatusTooManyRequests {
		wait *= 5
	}
	return wait
}

// Get fetches `url`. Failing to get data is never an error, it is reported through the
// Outcome, the error is only non-nil when ctx is done.
func (c *Client) Get(ctx context.Context, url string) (Response, error) {
	var out Response

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		out.Attempts = attempt + 1

		res, err := c.http.R().
			SetContext(ctx).
			Get(url)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}

		status := 0
		if err == nil {
			status = res.StatusCode()
		}
		out.Status = status
		attemptCounter.Add(ctx, 1, metric.WithAttributes(attribute.Int("status", status)))

		switch {
		case err == nil && status >= 200 && status < 300:
			c.tel.ReportDebug(report_client_get, url, status, out.Attempts)
			out.Body = res.Body()
			out.Outcome = OutcomeOK
			return out, nil
		case status == http.StatusNotFound:
			c.tel.ReportDebug(report_client_get, url, status, "not found")
			out.Outcome = OutcomeNotFound
			return out, nil
		case err == nil && status != http.StatusTooManyRequests && status < 500:
			c.tel.ReportWarning(report_client_get, url, status, "not retryable")
			out.Outcome = OutcomeNoData
			return out, nil
		}

		if attempt == c.maxRetries-1 {
			c.tel.ReportWarning(
				report_client_get,
				url, status,
				fmt.Sprintf("attempt %d/%d failed, giving up", out.Attempts, c.maxRetries),
				describe(err),
			)
			break
		}

		wait := Backoff(attempt, status)
		c.tel.ReportWarning(
			report_client_get,
			url, status,
			fmt.Sprintf("attempt %d/%d failed, retrying in %s", out.Attempts, c.maxRetries, wait),
			describe(err),
		)
		out.Waits = append(out.Waits, wait)
		err = c.sleeper.Sleep(ctx, wait)
		if err != nil {
			return out, err
		}
	}

	out.Outcome = OutcomeNoData
	return out, nil
}

func describe(err error) string {
	if err == nil {
		return ""
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return fmt.Sprintf("timeout: %s", err.Error())
	}
	return err.Error()
}
