package ssllabsreport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	sslmodel "github.com/adedayo/ssllabsreport/pkg/model"
	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

//Poller obtains a terminal assessment result for a host
type Poller interface {
	Poll(ctx context.Context, host string) (sslmodel.AssessmentResult, error)
}

//APIPoller polls the assessment API at a fixed interval until the assessment is READY or ERROR
type APIPoller struct {
	client   *resty.Client
	apiURL   string
	interval time.Duration
	policy   sslmodel.RetryPolicy
}

//NewAPIPoller creates a poller for the API, interval and retry policy of the configuration
func NewAPIPoller(config sslmodel.ReportConfig) *APIPoller {
	client := resty.New().
		SetTimeout(60*time.Second).
		SetHeader("Accept", "application/json")
	return &APIPoller{
		client:   client,
		apiURL:   strings.TrimSuffix(config.APIURL, "/"),
		interval: config.PollInterval,
		policy:   config.RetryPolicy(),
	}
}

//Poll requests the assessment of host, publish off, cached results accepted, mismatches ignored, and re-issues the same request every interval while the scan runs
func (p *APIPoller) Poll(ctx context.Context, host string) (result sslmodel.AssessmentResult, err error) {
	start := time.Now()
	attempt := 0
	for {
		attempt++
		attemptStart := time.Now()
		result, err = p.request(ctx, host)
		if err != nil {
			return result, err
		}
		log.Debugf("[%s] Attempt %d answered in %.2f seconds with status %s", host, attempt, time.Since(attemptStart).Seconds(), result.Status)
		if result.IsTerminal() {
			break
		}
		if p.policy.MaxAttempts > 0 && attempt >= p.policy.MaxAttempts ||
			p.policy.Deadline > 0 && time.Since(start) >= p.policy.Deadline {
			return result, &sslmodel.PollLimitError{Host: host, Attempts: attempt, Elapsed: time.Since(start)}
		}
		log.Infof("[%s] Scan in progress (%s), next check in %s", host, result.Status, p.interval)
		if err = sleep(ctx, p.interval); err != nil {
			return result, err
		}
	}

	log.Debugf("[%s] Result after %d attempts: %#v", host, attempt, result)
	if result.Status == sslmodel.StatusError {
		return result, &sslmodel.AnalysisError{Host: host, StatusMessage: result.StatusMessage}
	}
	return result, nil
}

func (p *APIPoller) request(ctx context.Context, host string) (result sslmodel.AssessmentResult, e error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"host":           host,
			"publish":        "off",
			"all":            "done",
			"ignoreMismatch": "on",
		}).
		Get(p.apiURL + "/analyze")
	if err != nil {
		return result, fmt.Errorf("assessment request for %s failed: %w", host, err)
	}

	body := resp.Body()
	if err := json.Unmarshal(body, &result); err != nil {
		if resp.StatusCode() != http.StatusOK {
			return result, &sslmodel.RequestError{Host: host, StatusCode: resp.StatusCode(), Body: string(body)}
		}
		return result, &sslmodel.MalformedResponseError{Host: host, Reason: err.Error()}
	}
	if len(result.Errors) > 0 || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return result, &sslmodel.RequestError{
			Host:       host,
			StatusCode: resp.StatusCode(),
			Errors:     result.Errors,
			Body:       string(body),
		}
	}
	return
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
