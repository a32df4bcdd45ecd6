package portal

import (
	"context"
	"fmt"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// CheckResult is the outcome of probing the portal over plain HTTP.
type CheckResult struct {
	URL      string
	Status   int
	Duration time.Duration
}

func (c CheckResult) Reachable() bool {
	return c.Status > 0 && c.Status < 500
}

// Check requests the portal's login page without a browser so that an
// unreachable portal can be told apart from a broken scrape.
func Check(ctx context.Context, url string, timeout time.Duration) (CheckResult, error) {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	start := time.Now()
	res, err := client.R().
		SetContext(ctx).
		Get(url)
	result := CheckResult{
		URL:      url,
		Duration: time.Since(start),
	}
	if err != nil {
		return result, fmt.Errorf("check portal: %w", err)
	}
	result.Status = res.StatusCode()
	return result, nil
}
