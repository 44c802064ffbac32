package email

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/adedayo/ssllabsreport/pkg/assets"
	sslmodel "github.com/adedayo/ssllabsreport/pkg/model"
	log "github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

var (
	funcMap = template.FuncMap{
		"gradeColour": GradeColour,
	}
	reportTemplate = template.Must(template.New("report").Funcs(funcMap).Parse(assets.Report))
)

//Sender delivers the reports of a run
type Sender interface {
	Send(reports []sslmodel.HostReport) error
}

//SMTPSender mails the report table over SMTP; port 465 uses implicit TLS
type SMTPSender struct {
	config sslmodel.EmailConfig
	dialer *gomail.Dialer
}

//NewSMTPSender creates a sender for the SMTP settings
func NewSMTPSender(config sslmodel.EmailConfig) *SMTPSender {
	return &SMTPSender{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

//Send renders the reports and mails them to every recipient
func (s *SMTPSender) Send(reports []sslmodel.HostReport) error {
	m, err := NewMessage(s.config, reports)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending report email through %s:%d: %w", s.config.Host, s.config.Port, err)
	}
	log.Infof("Report email sent to %v", s.config.To)
	return nil
}

//NewMessage builds the HTML report email, with the grade distribution chart inline when it can be drawn
func NewMessage(config sslmodel.EmailConfig, reports []sslmodel.HostReport) (*gomail.Message, error) {
	chart, err := GradeChart(reports)
	if err != nil {
		log.Warnf("Sending report without grade chart: %v", err)
		chart = nil
	}
	html, err := FormatHTML(config.Subject, reports, chart != nil)
	if err != nil {
		return nil, err
	}
	log.Debugf("Email content: %s", html)

	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetHeader("From", config.From)
	m.SetHeader("To", config.To...)
	m.SetHeader("Subject", config.Subject)
	m.SetBody("text/html", html)
	if chart != nil {
		m.Embed(assets.ChartName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(chart)
			return err
		}))
	}
	return m, nil
}

type reportModel struct {
	Title    string
	Reports  []sslmodel.HostReport
	HasChart bool
}

//FormatHTML renders the report table
func FormatHTML(title string, reports []sslmodel.HostReport, withChart bool) (string, error) {
	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, reportModel{
		Title:    title,
		Reports:  reports,
		HasChart: withChart,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

//GradeColour picks the display colour of a grade by lexical order: up to A- green, up to C dark yellow, anything after red
func GradeColour(grade string) string {
	switch {
	case grade <= "A-":
		return "green"
	case grade <= "C":
		return "#E9AB17"
	default:
		return "red"
	}
}
