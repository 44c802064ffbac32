package email

import (
	"bytes"
	"strings"
	"testing"

	sslmodel "github.com/adedayo/ssllabsreport/pkg/model"
)

var reports = []sslmodel.HostReport{
	sslmodel.NewHostReport("example.com",
		sslmodel.Assessment{
			Grade:            "A",
			GradeIgnoreTrust: "A",
			Protocols:        []string{"TLS1.2", "TLS1.3"},
			Ciphers:          []string{"TLS_AES_128_GCM_SHA256"},
		},
		sslmodel.PageNotices{Warnings: []string{"Some warning text"}}),
	sslmodel.NewHostReport("legacy.example.com",
		sslmodel.Assessment{
			Grade:            "F",
			GradeIgnoreTrust: "C",
			Protocols:        []string{"SSL3.0"},
		},
		sslmodel.PageNotices{Errors: []string{"This server is vulnerable to the POODLE attack <SSL3>"}}),
}

func TestGradeColour(t *testing.T) {
	tests := []struct {
		grade string
		want  string
	}{
		{"A+", "green"},
		{"A", "green"},
		{"A-", "green"},
		{"B", "#E9AB17"},
		{"C", "#E9AB17"},
		{"C-", "red"},
		{"F", "red"},
		{"T", "red"},
		{"M", "red"},
	}
	for _, tt := range tests {
		t.Run(tt.grade, func(t *testing.T) {
			if got := GradeColour(tt.grade); got != tt.want {
				t.Errorf("GradeColour(%q) = %v, want %v", tt.grade, got, tt.want)
			}
		})
	}
}

func TestFormatHTML(t *testing.T) {
	html, err := FormatHTML("SSL Report", reports, false)
	if err != nil {
		t.Fatalf("FormatHTML() error = %v", err)
	}
	for _, want := range []string{
		"SSL Report",
		">example.com</th>",
		">legacy.example.com</th>",
		"TLS1.2<br>TLS1.3",
		"Some warning text",
		"color: green",
		"color: red",
		"E9AB17",
		"&lt;SSL3&gt;",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("FormatHTML() output lacks %q:\n%s", want, html)
		}
	}
	if strings.Contains(html, "cid:") {
		t.Errorf("FormatHTML() referenced a chart that was not requested")
	}
	if strings.Index(html, "example.com") > strings.Index(html, "legacy.example.com") {
		t.Errorf("FormatHTML() changed the report order")
	}
}

func TestFormatHTMLWithChart(t *testing.T) {
	html, err := FormatHTML("SSL Report", reports, true)
	if err != nil {
		t.Fatalf("FormatHTML() error = %v", err)
	}
	if !strings.Contains(html, "cid:grades.png") {
		t.Errorf("FormatHTML() did not reference the inline chart:\n%s", html)
	}
}

func TestGradeChart(t *testing.T) {
	png, err := GradeChart(reports)
	if err != nil {
		t.Fatalf("GradeChart() error = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("GradeChart() did not produce a PNG")
	}
	if _, err := GradeChart(nil); err == nil {
		t.Errorf("GradeChart(nil) expected an error")
	}
}

func TestNewMessage(t *testing.T) {
	config := sslmodel.EmailConfig{
		Host:    "smtp.example.com",
		Port:    465,
		From:    "reports@example.com",
		To:      []string{"ops@example.com", "sec@example.com"},
		Subject: "SSL Report",
	}
	m, err := NewMessage(config, reports)
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	raw := buf.String()
	for _, want := range []string{
		"Subject: SSL Report",
		"From: reports@example.com",
		"ops@example.com",
		"sec@example.com",
		"text/html",
		"grades.png",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message lacks %q", want)
		}
	}
}
