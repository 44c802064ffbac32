package sslmodel

//Assessment status values reported by the SSL Labs API
const (
	StatusDNS        = "DNS"
	StatusInProgress = "IN_PROGRESS"
	StatusReady      = "READY"
	StatusError      = "ERROR"
)

//AssessmentResult is the body returned by the analyze endpoint of the assessment API
type AssessmentResult struct {
	Host          string           `json:"host"`
	Port          int              `json:"port"`
	Protocol      string           `json:"protocol"`
	Status        string           `json:"status"`
	StatusMessage string           `json:"statusMessage"`
	StartTime     int64            `json:"startTime"`
	TestTime      int64            `json:"testTime"`
	Endpoints     []Endpoint       `json:"endpoints"`
	Errors        []APIErrorDetail `json:"errors,omitempty"`
}

//IsTerminal reports whether no further polling is needed for this result
func (r AssessmentResult) IsTerminal() bool {
	return r.Status == StatusReady || r.Status == StatusError
}

//Endpoint is one IP address of an assessed host
type Endpoint struct {
	IPAddress         string           `json:"ipAddress"`
	ServerName        string           `json:"serverName"`
	StatusMessage     string           `json:"statusMessage"`
	Grade             string           `json:"grade"`
	GradeTrustIgnored string           `json:"gradeTrustIgnored"`
	HasWarnings       bool             `json:"hasWarnings"`
	IsExceptional     bool             `json:"isExceptional"`
	Progress          int              `json:"progress"`
	Details           *EndpointDetails `json:"details,omitempty"`
}

//EndpointDetails carries the protocol and cipher suite lists of an endpoint
type EndpointDetails struct {
	Protocols []Protocol `json:"protocols"`
	Suites    *Suites    `json:"suites,omitempty"`
}

//Protocol is a negotiated protocol, e.g. {"TLS", "1.2"}
type Protocol struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

//String joins name and version the way reports show them, e.g. TLS1.2
func (p Protocol) String() string {
	return p.Name + p.Version
}

//Suites is the cipher suite section of the endpoint details
type Suites struct {
	List       []Suite `json:"list"`
	Preference bool    `json:"preference"`
}

//Suite is a single cipher suite
type Suite struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	CipherStrength int    `json:"cipherStrength"`
}

//APIErrorDetail is a request-level error returned by the assessment API
type APIErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

//Assessment is what the API path contributes to a host report
type Assessment struct {
	Grade            string
	GradeIgnoreTrust string
	Protocols        []string
	Ciphers          []string
}

//PageNotices is what the results page contributes to a host report
type PageNotices struct {
	Errors   []string
	Warnings []string
}

//HostReport is the merged, per-host outcome of one run. Build it with NewHostReport and treat it as read-only
type HostReport struct {
	Host             string   `json:"host"`
	Grade            string   `json:"grade"`
	GradeIgnoreTrust string   `json:"gradeIgnoreTrust"`
	Errors           []string `json:"errors"`
	Warnings         []string `json:"warnings"`
	Protocols        []string `json:"protocols"`
	Ciphers          []string `json:"ciphers"`
}

//NewHostReport merges the API and page data of a host. Every list is copied and never nil
func NewHostReport(host string, assessment Assessment, notices PageNotices) HostReport {
	return HostReport{
		Host:             host,
		Grade:            assessment.Grade,
		GradeIgnoreTrust: assessment.GradeIgnoreTrust,
		Errors:           copyStrings(notices.Errors),
		Warnings:         copyStrings(notices.Warnings),
		Protocols:        copyStrings(assessment.Protocols),
		Ciphers:          copyStrings(assessment.Ciphers),
	}
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

//ScanProgress is streamed to websocket clients while a run is under way
type ScanProgress struct {
	Position  int         `json:"position"`
	Total     int         `json:"total"`
	Progress  float32     `json:"progress"`
	Report    *HostReport `json:"report,omitempty"`
	Narrative string      `json:"narrative"`
	Error     string      `json:"error,omitempty"`
}

//ReportRequest is the body a websocket client sends to start a streamed run
type ReportRequest struct {
	Hosts []string `json:"hosts"`
}
