package ssllabsreport

import (
	"context"
	"fmt"
	"time"

	sslmodel "github.com/adedayo/ssllabsreport/pkg/model"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

//FailurePolicy decides what a failed host means for the rest of a run
type FailurePolicy interface {
	//OnFailure returns a non-nil error to abort the run, or nil to carry on with the next host
	OnFailure(host string, err error) error
	//Result is the error a run ends with once every host has been processed
	Result() error
}

//AbortOnFailure stops the run at the first failed host; no partial results are returned
type AbortOnFailure struct{}

//OnFailure aborts
func (AbortOnFailure) OnFailure(host string, err error) error {
	return err
}

//Result is always nil: an aborted run never reaches it
func (AbortOnFailure) Result() error {
	return nil
}

//ContinueOnFailure skips failed hosts and reports every failure together at the end of the run
type ContinueOnFailure struct {
	errs *multierror.Error
}

//OnFailure records the failure
func (c *ContinueOnFailure) OnFailure(host string, err error) error {
	log.Errorf("[%s] Skipping host: %v", host, err)
	c.errs = multierror.Append(c.errs, fmt.Errorf("%s: %w", host, err))
	return nil
}

//Result is the aggregate of the recorded failures, or nil
func (c *ContinueOnFailure) Result() error {
	return c.errs.ErrorOrNil()
}

//Analyzer merges the API assessment and the results page of hosts into reports, one host at a time
type Analyzer struct {
	poller  Poller
	scraper Scraper
	//NewPolicy creates the failure policy of each run; nil means AbortOnFailure
	NewPolicy func() FailurePolicy
}

//NewAnalyzer creates an analyzer that aborts a run on the first failure
func NewAnalyzer(poller Poller, scraper Scraper) *Analyzer {
	return &Analyzer{poller: poller, scraper: scraper}
}

//NewAnalyzerFromConfig wires the assessment API poller and a headless Chrome scraper from a configuration
func NewAnalyzerFromConfig(config sslmodel.ReportConfig) *Analyzer {
	analyzer := NewAnalyzer(NewAPIPoller(config), NewPageScraper(NewChromeBrowser(), config))
	if config.ContinueOnFailure {
		analyzer.NewPolicy = func() FailurePolicy { return &ContinueOnFailure{} }
	}
	return analyzer
}

//Analyze polls the API, extracts the assessment and scrapes the results page of host
func (a *Analyzer) Analyze(ctx context.Context, host string) (report sslmodel.HostReport, e error) {
	startGlobal := time.Now()
	log.Infof("Report requested for host %s", host)

	start := time.Now()
	log.Infof("[%s] Invoking rest api", host)
	result, err := a.poller.Poll(ctx, host)
	if err != nil {
		return report, err
	}
	if result.Host == "" {
		result.Host = host
	}
	assessment, err := Extract(result)
	if err != nil {
		return report, err
	}
	log.Infof("[%s] Rest api result received in %.2f seconds. Grade: %s (%s) %v %v", host, time.Since(start).Seconds(),
		assessment.Grade, assessment.GradeIgnoreTrust, assessment.Protocols, assessment.Ciphers)

	start = time.Now()
	log.Infof("[%s] Requesting html page", host)
	notices, err := a.scraper.Scrape(ctx, host)
	if err != nil {
		return report, err
	}
	log.Infof("[%s] Html page processed in %.2f seconds", host, time.Since(start).Seconds())

	report = sslmodel.NewHostReport(host, assessment, notices)
	log.Infof("[%s] Report completed in %.2f seconds: %s (%s), %v, %v", host, time.Since(startGlobal).Seconds(),
		report.Grade, report.GradeIgnoreTrust, report.Errors, report.Warnings)
	return report, nil
}

//AnalyzeAll analyzes hosts in order and returns their reports in the same order.
//Under AbortOnFailure a failure yields no reports at all; a cancelled ctx ends the run the same way under either policy
func (a *Analyzer) AnalyzeAll(ctx context.Context, hosts []string) ([]sslmodel.HostReport, error) {
	reports := []sslmodel.HostReport{}
	aborted, err := a.run(ctx, hosts, func(position int, report sslmodel.HostReport) {
		reports = append(reports, report)
	})
	if aborted {
		return nil, err
	}
	return reports, err
}

//AnalyzeEach analyzes hosts in order, handing each report to callback with its 1-based position as soon as it is complete
func (a *Analyzer) AnalyzeEach(ctx context.Context, hosts []string, callback func(position int, report sslmodel.HostReport)) error {
	_, err := a.run(ctx, hosts, callback)
	return err
}

func (a *Analyzer) run(ctx context.Context, hosts []string, callback func(int, sslmodel.HostReport)) (aborted bool, e error) {
	policy := a.policy()
	for i, host := range hosts {
		if err := ctx.Err(); err != nil {
			return true, err
		}
		report, err := a.Analyze(ctx, host)
		if err != nil {
			if abort := policy.OnFailure(host, err); abort != nil {
				return true, abort
			}
			continue
		}
		callback(i+1, report)
	}
	return false, policy.Result()
}

func (a *Analyzer) policy() FailurePolicy {
	if a.NewPolicy == nil {
		return AbortOnFailure{}
	}
	return a.NewPolicy()
}
