package ssllabsreport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	sslmodel "github.com/adedayo/ssllabsreport/pkg/model"
	"github.com/adedayo/ssllabsreport/pkg/reports/email"
	"github.com/carlescere/scheduler"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//Reporter produces host reports; *Analyzer is the production implementation
type Reporter interface {
	Analyze(ctx context.Context, host string) (sslmodel.HostReport, error)
	AnalyzeAll(ctx context.Context, hosts []string) ([]sslmodel.HostReport, error)
	AnalyzeEach(ctx context.Context, hosts []string, callback func(position int, report sslmodel.HostReport)) error
}

//Service runs reports on a daily schedule and on demand through an HTTP API. Runs never overlap
type Service struct {
	config   sslmodel.ReportConfig
	reporter Reporter
	sender   email.Sender

	runLock sync.Mutex
	latest  []sslmodel.HostReport
	mu      sync.RWMutex
}

//NewService creates a service; a nil sender disables the report email
func NewService(config sslmodel.ReportConfig, reporter Reporter, sender email.Sender) *Service {
	return &Service{
		config:   config,
		reporter: reporter,
		sender:   sender,
	}
}

//RunReport analyzes every configured host and emails the reports. Under the abort policy a failed run sends nothing
func (s *Service) RunReport(ctx context.Context) ([]sslmodel.HostReport, error) {
	s.runLock.Lock()
	defer s.runLock.Unlock()

	reports, err := s.reporter.AnalyzeAll(ctx, s.config.Hosts)
	if reports == nil {
		return nil, err
	}
	s.mu.Lock()
	s.latest = reports
	s.mu.Unlock()

	if s.sender != nil && len(reports) > 0 {
		if sendErr := s.sender.Send(reports); sendErr != nil {
			if err != nil {
				return reports, fmt.Errorf("%v; %w", err, sendErr)
			}
			return reports, sendErr
		}
	}
	return reports, err
}

//LatestReports returns the reports of the most recent run, sorted by host
func (s *Service) LatestReports() []sslmodel.HostReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sslmodel.HostReport, len(s.latest))
	copy(out, s.latest)
	sort.Sort(sslmodel.HostReportSorter(out))
	return out
}

//Schedule registers a report run at every configured daily time ("HH:MM")
func (s *Service) Schedule() error {
	job := func() {
		if _, err := s.RunReport(context.Background()); err != nil {
			log.Errorf("Scheduled report failed: %v", err)
		}
	}
	for _, t := range s.config.DailySchedules {
		if _, err := scheduler.Every().Day().At(t).Run(job); err != nil {
			return fmt.Errorf("bad daily schedule %q: %w", t, err)
		}
		log.Infof("Report scheduled daily at %s", t)
	}
	return nil
}

//AddRoutes adds the report API routes to an existing router setup
func (s *Service) AddRoutes(r *mux.Router) {
	r.HandleFunc("/report/{host}", s.getReport).Methods("GET")
	r.HandleFunc("/reports", s.getLatestReports).Methods("GET")
	r.HandleFunc("/stream", s.streamReports).Methods("GET")
}

//ServeAPI serves the report API on port, over TLS when a certificate is available
func (s *Service) ServeAPI(port int) error {
	routes := mux.NewRouter()
	s.AddRoutes(routes)
	corsOptions := []handlers.CORSOption{
		handlers.AllowedOrigins([]string{"http://localhost:4200",
			fmt.Sprintf("http://localhost:%d", port), fmt.Sprintf("https://localhost:%d", port)}),
		handlers.AllowedMethods([]string{"GET", "HEAD"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept", "Accept-Language", "Origin"}),
	}
	handler := handlers.CORS(corsOptions...)(handlers.CombinedLoggingHandler(log.StandardLogger().Writer(), routes))
	addr := fmt.Sprintf(":%d", port)

	certFile, keyFile, err := genCerts()
	if err != nil {
		log.Warnf("Serving the report API without TLS: %v", err)
		return http.ListenAndServe(addr, handler)
	}
	log.Infof("Serving the report API on https://localhost%s", addr)
	return http.ListenAndServeTLS(addr, certFile, keyFile, handler)
}

func (s *Service) getReport(w http.ResponseWriter, req *http.Request) {
	host := mux.Vars(req)["host"]
	s.runLock.Lock()
	report, err := s.reporter.Analyze(req.Context(), host)
	s.runLock.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Service) getLatestReports(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, s.LatestReports())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errorStatus(err), map[string]string{"error": err.Error()})
}

func errorStatus(err error) int {
	var (
		requestErr  *sslmodel.RequestError
		analysisErr *sslmodel.AnalysisError
		timeoutErr  *sslmodel.RenderTimeoutError
		limitErr    *sslmodel.PollLimitError
	)
	switch {
	case errors.As(err, &requestErr):
		return http.StatusBadRequest
	case errors.As(err, &analysisErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &timeoutErr), errors.As(err, &limitErr):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
