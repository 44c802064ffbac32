// Copyright © 2019-2026 Adedayo Adetoye (aka Dayo)
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
//
// 1. Redistributions of source code must retain the above copyright notice,
//    this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright notice,
//    this list of conditions and the following disclaimer in the documentation
//    and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its contributors
//    may be used to endorse or promote products derived from this software
//    without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	ssllabsreport "github.com/adedayo/ssllabsreport/pkg"
	sslmodel "github.com/adedayo/ssllabsreport/pkg/model"
	"github.com/adedayo/ssllabsreport/pkg/reports/email"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	app        = "ssllabsreport"
	appVersion = "0.0.0"
	rootCmd    = &cobra.Command{
		Use:     app,
		Short:   "Grade the TLS configuration of hosts with SSL Labs and email the report",
		Example: "ssllabsreport example.com example.org\nssllabsreport --json --no-email example.com\nssllabsreport --service",
		RunE:    runner,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(version string) {
	appVersion = version
	rootCmd.Version = version
	rootCmd.Long = fmt.Sprintf(`ssllabsreport - Grade the TLS configuration of hosts with SSL Labs and email the report
	
	Version: %s
	
	Author: Adedayo Adetoye (Dayo) <https://github.com/adedayo>`, version)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var configPath string
var jsonOut, noEmail, continueOnError, verbose, service bool
var api int

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", ssllabsreport.ConfigPath, "read hosts, endpoints and email settings from the YAML `FILE`")
	rootCmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "print the reports as JSON instead of emailing them")
	rootCmd.Flags().BoolVar(&noEmail, "no-email", false, "do not email the reports")
	rootCmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "report the hosts that succeed even when others fail")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.Flags().BoolVarP(&service, "service", "s", false, fmt.Sprintf("run %s as a service on the configured daily schedules, with the HTTP API", app))
	rootCmd.Flags().IntVar(&api, "api", sslmodel.DefaultServicePort, "run only the HTTP API on the specified port")
}

func runner(cmd *cobra.Command, args []string) error {
	config, err := resolveConfig(configPath, cmd.Flag("config").Changed, cmd.Flag("api").Changed, args)
	if err != nil {
		return err
	}
	if continueOnError {
		config.ContinueOnFailure = true
	}
	if verbose {
		config.LogLevel = "debug"
	}
	ssllabsreport.SetupLogging(config.LogLevel)

	if cmd.Flag("api").Changed { // run as simple API service
		return ssllabsreport.NewService(config, ssllabsreport.NewAnalyzerFromConfig(config), nil).ServeAPI(api)
	}

	if err := config.Validate(); err != nil {
		return err
	}
	var sender email.Sender
	if !noEmail && !jsonOut {
		if err := config.Email.Validate(); err != nil {
			return fmt.Errorf("%w (use --no-email to skip the report email)", err)
		}
		sender = email.NewSMTPSender(config.Email)
	}
	svc := ssllabsreport.NewService(config, ssllabsreport.NewAnalyzerFromConfig(config), sender)

	if service { // run as a scheduled service with API
		if err := svc.Schedule(); err != nil {
			return err
		}
		port := config.ServicePort
		if port == 0 {
			port = sslmodel.DefaultServicePort
		}
		return svc.ServeAPI(port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Infof("Starting %s %s (https://github.com/adedayo/ssllabsreport)", app, appVersion)
	log.Infof("Reporting on: %s", strings.Join(config.Hosts, ", "))
	reports, err := svc.RunReport(ctx)
	if jsonOut && len(reports) > 0 {
		if jsonData, err := json.MarshalIndent(reports, "", "  "); err == nil {
			fmt.Printf("%s\n", string(jsonData))
		}
	}
	return err
}

//resolveConfig loads the configuration file, or the defaults when a missing default file is not needed. Host arguments replace the configured hosts
func resolveConfig(path string, explicitPath, apiOnly bool, args []string) (sslmodel.ReportConfig, error) {
	config, err := ssllabsreport.LoadConfig(path)
	if err != nil {
		if !os.IsNotExist(err) || explicitPath || (len(args) == 0 && !apiOnly) {
			return config, fmt.Errorf("loading configuration %s: %w", path, err)
		}
		config = sslmodel.DefaultConfig()
	}
	if len(args) > 0 {
		config.Hosts = args
	}
	return config, nil
}
