// Package gateway is the single chokepoint for remote calls. Every failure
// surfaces as *core.RequestError; callers decide about retries, the gateway
// never retries on its own.
package gateway

import (
	"context"
	"log/slog"
	"net/http/cookiejar"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"resty.dev/v3"

	"walletfeed/internal/core"
)

var requests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "walletfeed_gateway_requests_total",
	Help: "The total number of gateway requests",
}, []string{"endpoint", "outcome"})

type Client struct {
	Logger *slog.Logger
	Config *core.Config

	http *resty.Client
}

func (c *Client) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "gateway.Client")

	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}

	c.http = resty.NewWithTransportSettings(&resty.TransportSettings{
		DialerTimeout:         5 * time.Second,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}).
		SetBaseURL(c.Config.APIBaseURL).
		SetCookieJar(jar).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return nil
}

func (c *Client) Shutdown(_ context.Context) error {
	return c.http.Close()
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.http.R().WithContext(ctx).SetError(&errorBody{})
}

type errorBody struct {
	Message string `json:"message"`
}

const genericMessage = "network error"

// normalize folds every failure mode into *core.RequestError. A transport
// error has status 0; an unparseable error body degrades to the generic
// message instead of leaking a parse failure.
func normalize(endpoint string, res *resty.Response, err error) error {
	if err != nil {
		requests.WithLabelValues(endpoint, "error").Inc()
		return &core.RequestError{Status: 0, Message: genericMessage}
	}

	if res.IsError() {
		requests.WithLabelValues(endpoint, "error").Inc()

		message := genericMessage
		if body, ok := res.Error().(*errorBody); ok && body.Message != "" {
			message = body.Message
		}
		return &core.RequestError{Status: res.StatusCode(), Message: message}
	}

	requests.WithLabelValues(endpoint, "ok").Inc()
	return nil
}
