package ssllabsreport

import (
	sslmodel "github.com/adedayo/ssllabsreport/pkg/model"
)

//Extract reads grades, protocols and cipher suites off the first endpoint of a READY result.
//Hosts with several IP addresses get several endpoints; only the first is reported
func Extract(result sslmodel.AssessmentResult) (assessment sslmodel.Assessment, e error) {
	malformed := func(reason string) error {
		return &sslmodel.MalformedResponseError{Host: result.Host, Reason: reason}
	}
	if len(result.Endpoints) == 0 {
		return assessment, malformed("no endpoints in result")
	}
	endpoint := result.Endpoints[0]
	if endpoint.Grade == "" || endpoint.GradeTrustIgnored == "" {
		return assessment, malformed("endpoint " + endpoint.IPAddress + " has no grade")
	}
	if endpoint.Details == nil {
		return assessment, malformed("endpoint " + endpoint.IPAddress + " has no details")
	}
	if endpoint.Details.Suites == nil {
		return assessment, malformed("endpoint " + endpoint.IPAddress + " has no cipher suites")
	}

	assessment.Grade = endpoint.Grade
	assessment.GradeIgnoreTrust = endpoint.GradeTrustIgnored
	assessment.Protocols = make([]string, 0, len(endpoint.Details.Protocols))
	for _, p := range endpoint.Details.Protocols {
		assessment.Protocols = append(assessment.Protocols, p.String())
	}
	assessment.Ciphers = make([]string, 0, len(endpoint.Details.Suites.List))
	for _, s := range endpoint.Details.Suites.List {
		assessment.Ciphers = append(assessment.Ciphers, s.Name)
	}
	return
}
