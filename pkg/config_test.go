package ssllabsreport

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	sslmodel "github.com/adedayo/ssllabsreport/pkg/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
hosts:
  - example.com
  - example.org
pollInterval: 45s
maxAttempts: 20
renderTimeout: 15s
continueOnFailure: true
dailySchedules: ["07:30"]
email:
  host: smtp.example.com
  from: reports@example.com
  to: [ops@example.com]
`)
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if want := []string{"example.com", "example.org"}; !reflect.DeepEqual(config.Hosts, want) {
		t.Errorf("Hosts = %v, want %v", config.Hosts, want)
	}
	if config.PollInterval != 45*time.Second {
		t.Errorf("PollInterval = %v, want 45s", config.PollInterval)
	}
	if config.RenderTimeout != 15*time.Second {
		t.Errorf("RenderTimeout = %v, want 15s", config.RenderTimeout)
	}
	if config.RetryPolicy() != (sslmodel.RetryPolicy{MaxAttempts: 20}) {
		t.Errorf("RetryPolicy() = %#v", config.RetryPolicy())
	}
	if !config.ContinueOnFailure {
		t.Errorf("ContinueOnFailure = false, want true")
	}
	if config.APIURL != sslmodel.DefaultAPIURL || config.UserAgent != sslmodel.DefaultUserAgent {
		t.Errorf("defaults were not applied: %#v", config)
	}
	if config.Email.Port != 465 || config.Email.Subject != "SSL Report" {
		t.Errorf("email defaults were not applied: %#v", config.Email)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml")); !os.IsNotExist(err) {
		t.Errorf("LoadConfig() error = %v, want a not-exist error", err)
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := writeConfig(t, "hosts: [unterminated")
	if _, err := LoadConfig(path); err == nil {
		t.Errorf("LoadConfig() expected an error for malformed YAML")
	}
}
