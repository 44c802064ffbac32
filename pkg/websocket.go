package ssllabsreport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	sslmodel "github.com/adedayo/ssllabsreport/pkg/model"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && (u.Host == r.Host || u.Hostname() == "localhost")
		},
	}
)

//streamReports reads a ReportRequest from the websocket and streams one ScanProgress per host as its report completes
func (s *Service) streamReports(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Error(err)
		return
	}
	defer conn.Close()

	var request sslmodel.ReportRequest
	if err := conn.ReadJSON(&request); err != nil {
		log.Error(err)
		return
	}
	total := len(request.Hosts)
	start := time.Now()

	//a hijacked connection never cancels the request context
	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.runLock.Lock()
	defer s.runLock.Unlock()
	err = s.reporter.AnalyzeEach(ctx, request.Hosts, func(position int, report sslmodel.HostReport) {
		r := report
		out := sslmodel.ScanProgress{
			Position: position,
			Total:    total,
			Progress: 100 * float32(position) / float32(total),
			Report:   &r,
			Narrative: fmt.Sprintf("Finished report of %s. Progress %f%% %d hosts of a total of %d in %f seconds",
				report.Host, 100*float32(position)/float32(total), position, total, time.Since(start).Seconds()),
		}
		if err := conn.WriteJSON(out); err != nil {
			log.Errorf("Abandoning streamed run: %v", err)
			cancel()
		}
	})

	final := sslmodel.ScanProgress{
		Position:  total,
		Total:     total,
		Progress:  100,
		Narrative: fmt.Sprintf("Run of %d hosts ended in %f seconds", total, time.Since(start).Seconds()),
	}
	if err != nil {
		final.Error = err.Error()
	}
	if err := conn.WriteJSON(final); err != nil {
		log.Error(err)
	}
}
