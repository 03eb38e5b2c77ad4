package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/mbruegger/wallcast/internal/stats"
	"github.com/mbruegger/wallcast/internal/store"
	"github.com/mbruegger/wallcast/internal/wallpaper"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// Server is the HTTP status server for the bot.
type Server struct {
	st    *store.Store
	pages map[string]*template.Template
	mux   *http.ServeMux
}

// New creates a new Server.
func New(st *store.Store) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"index.html", "report.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{st: st, pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Routes
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/report", s.handleReport)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	st, err := s.st.LoadStats()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	rot, err := s.st.LoadRotation()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "index.html", map[string]any{
		"Stats":       st,
		"Current":     rot.Current(),
		"Next":        rot.Next(),
		"LastRotated": rot.LastRotated,
		"Uptime":      formatDuration(st.Uptime(time.Now())),
		"SuccessRate": fmt.Sprintf("%.1f%%", st.SuccessRate()),
		"AvgDaily":    fmt.Sprintf("%.1f", st.AvgDaily()),
		"RecentDays":  st.RecentDays(7),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	st, err := s.st.LoadStats()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	rot, err := s.st.LoadRotation()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "report.html", map[string]any{
		"Report": Report(st, rot.Current(), time.Now()),
	})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// Serve starts the HTTP server on the given port.
func Serve(st *store.Store, port int) error {
	srv, err := New(st)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}

// Report builds the markdown statistics report shown on /report. The
// same text backs the CLI status output.
func Report(st stats.Stats, current wallpaper.Source, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Delivery Report\n\n")
	fmt.Fprintf(&b, "**Current source:** %s\n\n", current)
	fmt.Fprintf(&b, "**Uptime:** %s\n\n", formatDuration(st.Uptime(now)))
	b.WriteString("## Totals\n\n")
	fmt.Fprintf(&b, "- Sent: %d\n", st.TotalSent)
	fmt.Fprintf(&b, "- Successful batches: %d\n", st.SuccessfulBatches)
	fmt.Fprintf(&b, "- Failed batches: %d\n", st.FailedBatches)
	fmt.Fprintf(&b, "- Filtered out: %d\n", st.FilteredImages)
	fmt.Fprintf(&b, "- Success rate: %.1f%%\n\n", st.SuccessRate())
	b.WriteString("## By source\n\n")
	for _, src := range wallpaper.Sources() {
		fmt.Fprintf(&b, "- %s: %d\n", src, st.SourcesUsed[src])
	}
	b.WriteString("\n## Recent days\n\n")
	for _, day := range st.RecentDays(7) {
		fmt.Fprintf(&b, "- %s: %d sent\n", day.Date, day.Sent)
	}
	return b.String()
}
