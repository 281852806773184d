package checker

import (
	"context"
	"database/sql"
	"downalert/internal/config"
	"downalert/internal/model"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/doyensec/safeurl"
)

// Checker probes a site with a single HEAD request. Only an exact 200 counts
// as up; redirects are not followed.
type Checker struct {
	client  *http.Client
	timeout time.Duration
}

func New(config config.CheckerConfig) *Checker {
	var client *http.Client
	if config.BlockPrivate {
		// Only the dialer hook runs on the raw client; it enforces the ports.
		safeConfig := safeurl.GetConfigBuilder().
			SetTimeout(config.Timeout).
			SetAllowedPorts(config.AllowedPorts...).
			Build()
		client = safeurl.Client(safeConfig).Client
	} else {
		client = &http.Client{}
	}
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return NewWithClient(client, config.Timeout)
}

func NewWithClient(client *http.Client, timeout time.Duration) *Checker {
	return &Checker{
		client:  client,
		timeout: timeout,
	}
}

func (c *Checker) IsDown(ctx context.Context, url string) bool {
	result := c.Probe(ctx, model.Site{Url: url})
	return result.IsDown()
}

func (c *Checker) Probe(ctx context.Context, site model.Site) model.CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := model.CheckResult{
		Site: site,
		Time: time.Now(),
	}

	var code int
	err := requests.URL(site.Url).
		Head().
		Client(c.client).
		AddValidator(func(resp *http.Response) error {
			code = resp.StatusCode
			return nil
		}).
		CheckStatus(http.StatusOK).
		Fetch(ctx)

	if code != 0 {
		result.Code = sql.NullInt64{Int64: int64(code), Valid: true}
		result.Latency = sql.NullInt64{Int64: time.Since(result.Time).Milliseconds(), Valid: true}
	}
	if err != nil {
		result.Err = err.Error()
	}

	return result
}
