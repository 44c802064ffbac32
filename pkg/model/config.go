package sslmodel

import (
	"errors"
	"time"
)

const (
	//DefaultAPIURL is the SSL Labs assessment API base
	DefaultAPIURL = "https://api.ssllabs.com/api/v2"
	//DefaultPageURL is the human-facing results page
	DefaultPageURL = "https://www.ssllabs.com/ssltest/analyze.html"
	//DefaultUserAgent identifies the headless browser as desktop Chrome; the results page does not render otherwise
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 6.1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/47.0.2526.73 Safari/537.36"
	//DefaultPollInterval is the wait between two assessment requests while a scan is running
	DefaultPollInterval = 30 * time.Second
	//DefaultRenderTimeout bounds the wait for the results page to render
	DefaultRenderTimeout = 10 * time.Second
	//DefaultServicePort is the port of the HTTP API
	DefaultServicePort = 12345
)

//ReportConfig describes what to assess and how to reach the assessment service
type ReportConfig struct {
	Hosts             []string      `yaml:"hosts"`
	APIURL            string        `yaml:"apiURL"`
	PageURL           string        `yaml:"pageURL"`
	UserAgent         string        `yaml:"userAgent"`
	PollInterval      time.Duration `yaml:"pollInterval"`
	MaxAttempts       int           `yaml:"maxAttempts"`
	PollDeadline      time.Duration `yaml:"pollDeadline"`
	RenderTimeout     time.Duration `yaml:"renderTimeout"`
	ContinueOnFailure bool          `yaml:"continueOnFailure"`
	LogLevel          string        `yaml:"logLevel"`
	DailySchedules    []string      `yaml:"dailySchedules"`
	ServicePort       int           `yaml:"servicePort"`
	Email             EmailConfig   `yaml:"email"`
}

//EmailConfig holds the SMTP settings of the report email
type EmailConfig struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
	Subject  string   `yaml:"subject"`
}

//DefaultConfig returns the settings used for every key the config file leaves out
func DefaultConfig() ReportConfig {
	return ReportConfig{
		APIURL:        DefaultAPIURL,
		PageURL:       DefaultPageURL,
		UserAgent:     DefaultUserAgent,
		PollInterval:  DefaultPollInterval,
		RenderTimeout: DefaultRenderTimeout,
		LogLevel:      "info",
		ServicePort:   DefaultServicePort,
		Email: EmailConfig{
			Port:    465,
			Subject: "SSL Report",
		},
	}
}

//RetryPolicy bounds the poll loop. Zero values leave the loop unbounded
type RetryPolicy struct {
	MaxAttempts int
	Deadline    time.Duration
}

//RetryPolicy extracts the poll bounds from the configuration
func (c ReportConfig) RetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: c.MaxAttempts,
		Deadline:    c.PollDeadline,
	}
}

//Validate checks the settings every run needs
func (c ReportConfig) Validate() error {
	if len(c.Hosts) == 0 {
		return errors.New("no hosts configured")
	}
	for _, h := range c.Hosts {
		if h == "" {
			return errors.New("empty host name in configuration")
		}
	}
	if c.PollInterval <= 0 {
		return errors.New("pollInterval must be positive")
	}
	if c.RenderTimeout <= 0 {
		return errors.New("renderTimeout must be positive")
	}
	if c.MaxAttempts < 0 || c.PollDeadline < 0 {
		return errors.New("maxAttempts and pollDeadline must not be negative")
	}
	return nil
}

//Validate checks that a report email can be sent
func (e EmailConfig) Validate() error {
	if e.Host == "" {
		return errors.New("email host is not configured")
	}
	if e.From == "" {
		return errors.New("email sender is not configured")
	}
	if len(e.To) == 0 {
		return errors.New("no email recipients configured")
	}
	return nil
}
