package sslmodel

import (
	"fmt"
	"strings"
	"time"
)

//RequestError means the assessment API rejected the call itself (bad parameters, unknown host, rate limit)
type RequestError struct {
	Host       string
	StatusCode int
	Errors     []APIErrorDetail
	Body       string
}

func (e *RequestError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("incorrect api call for %s: status %d: %s", e.Host, e.StatusCode, e.Body)
	}
	msgs := []string{}
	for _, d := range e.Errors {
		if d.Field != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s", d.Field, d.Message))
		} else {
			msgs = append(msgs, d.Message)
		}
	}
	return fmt.Sprintf("incorrect api call for %s: %s", e.Host, strings.Join(msgs, "; "))
}

//AnalysisError means the remote assessment finished with status ERROR
type AnalysisError struct {
	Host          string
	StatusMessage string
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("assessment of %s failed: %s", e.Host, e.StatusMessage)
}

//MalformedResponseError means a READY response lacks the structure a report needs
type MalformedResponseError struct {
	Host   string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed api response for %s: %s", e.Host, e.Reason)
}

//PageFetchError means the results page load returned a non-success HTTP status
type PageFetchError struct {
	Host       string
	URL        string
	StatusCode int
}

func (e *PageFetchError) Error() string {
	return fmt.Sprintf("bad response status %d for %s (%s)", e.StatusCode, e.URL, e.Host)
}

//RenderTimeoutError means the render-complete marker did not show up in time
type RenderTimeoutError struct {
	Host     string
	Selector string
	Timeout  time.Duration
}

func (e *RenderTimeoutError) Error() string {
	return fmt.Sprintf("results page for %s did not render %s within %s", e.Host, e.Selector, e.Timeout)
}

//PollLimitError means a configured poll bound was reached before a terminal status
type PollLimitError struct {
	Host     string
	Attempts int
	Elapsed  time.Duration
}

func (e *PollLimitError) Error() string {
	return fmt.Sprintf("assessment of %s still running after %d attempts (%s)", e.Host, e.Attempts, e.Elapsed.Round(time.Second))
}
