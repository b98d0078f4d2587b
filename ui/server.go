package ui

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ablab/adapters/report"
	"ablab/internal"
)

// Server serves the rendered report, the chart documents, and the raw
// results over HTTP for browsing. It is a read-only view over the flat
// files the pipeline writes; it never computes anything.
type Server struct {
	router      chi.Router
	reportFile  string
	figuresDir  string
	resultsFile string
}

// NewServer creates a report server over the pipeline's output files.
func NewServer(reportFile, figuresDir, resultsFile string) *Server {
	s := &Server{
		reportFile:  reportFile,
		figuresDir:  figuresDir,
		resultsFile: resultsFile,
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleReport)
	r.Get("/results.json", s.handleResults)
	r.Handle("/figures/*", http.StripPrefix("/figures/", http.FileServer(http.Dir(figuresDir))))

	s.router = r
	return s
}

// Start blocks serving HTTP on the given port.
func (s *Server) Start(port string) error {
	addr := ":" + port
	internal.DefaultLogger.Info("report server listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleReport renders the markdown report as HTML.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	md, err := os.ReadFile(s.reportFile)
	if err != nil {
		http.Error(w, "report not generated yet - run the analysis pipeline first", http.StatusNotFound)
		return
	}

	body := report.RenderHTML(md)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>A/B Test Report</title>
<style>body { font-family: sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; } th, td { border: 1px solid #ccc; padding: 4px 10px; }</style>
</head>
<body>
%s
</body>
</html>
`, body)
}

// handleResults serves the raw results document.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.resultsFile)
	if err != nil {
		http.Error(w, "results not generated yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
