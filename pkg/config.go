package ssllabsreport

import (
	"io/ioutil"
	"path/filepath"

	sslmodel "github.com/adedayo/ssllabsreport/pkg/model"
	"github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"
)

var (
	//ConfigPath is the default config path of ssllabsreport
	ConfigPath = filepath.Join("~", ".ssllabsreport", "config.yml")
)

//LoadConfig reads a YAML configuration, filling in defaults for keys the file leaves out. A leading ~ is expanded
func LoadConfig(path string) (config sslmodel.ReportConfig, e error) {
	config = sslmodel.DefaultConfig()
	expanded, err := homedir.Expand(path)
	if err != nil {
		return config, err
	}
	configFile, err := ioutil.ReadFile(expanded)
	if err != nil {
		log.Error(err)
		return config, err
	}
	err = yaml.Unmarshal(configFile, &config)
	if err != nil {
		log.Error(err)
		return config, err
	}
	return
}

//SetupLogging applies a logrus level name, falling back to info
func SetupLogging(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
