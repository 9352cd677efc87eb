package app

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"timesheet-report/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"hours": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"day": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
}).ParseFS(templatesFS, "templates/*.html"))

// reportPage is the data handed to report.html.
type reportPage struct {
	Report domain.Report
	Filter string
}

// HTTPServer returns a configured http.Server serving the upload form,
// the report page and the Excel download.
// Call ListenAndServe on the returned server in a goroutine and Shutdown it on exit.
func (a *App) HTTPServer(addr string) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pages.ExecuteTemplate(w, "index.html", nil); err != nil {
			a.log.Error("render index", slog.String("error", err.Error()))
		}
	})

	// POST /report renders the report page; POST /report.xlsx returns the
	// same upload as an Excel attachment. Stateless by design: the file
	// travels with each request, nothing is kept between them.
	mux.HandleFunc("/report", func(w http.ResponseWriter, r *http.Request) {
		a.handleReport(w, r, false)
	})
	mux.HandleFunc("/report.xlsx", func(w http.ResponseWriter, r *http.Request) {
		a.handleReport(w, r, true)
	})

	srv := &http.Server{Addr: addr, Handler: loggingMiddleware(a.log, mux)}
	a.log.Info("http server configured", slog.String("addr", addr))
	return srv
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request, download bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.HTTP.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.cfg.HTTP.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, fmt.Sprintf("upload exceeds the %d byte limit", tooBig.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "malformed upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, hdr, err := r.FormFile("timesheet")
	if err != nil {
		http.Error(w, "missing timesheet file", http.StatusBadRequest)
		return
	}
	defer file.Close()
	if !strings.HasSuffix(strings.ToLower(hdr.Filename), ".xlsx") {
		http.Error(w, "unsupported format, upload an .xlsx file", http.StatusUnprocessableEntity)
		return
	}

	sel := domain.ColumnSelection{
		Project:    strings.TrimSpace(r.FormValue("project_col")),
		Specialist: strings.TrimSpace(r.FormValue("specialist_col")),
		Hours:      strings.TrimSpace(r.FormValue("hours_col")),
		Date:       strings.TrimSpace(r.FormValue("date_col")),
	}
	rep, err := a.uc.Build(r.Context(), file, sel)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if filter := strings.TrimSpace(r.FormValue("project")); filter != "" {
		rep = rep.FilterProject(filter)
	}

	if download {
		out, err := a.uc.Export(rep)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="timesheet_report.xlsx"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(out)))
		_, _ = w.Write(out)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, "report.html", reportPage{Report: rep, Filter: r.FormValue("project")}); err != nil {
		a.log.Error("render report", slog.String("error", err.Error()))
	}
}

// statusFor maps build errors onto HTTP statuses. Validation problems are
// the user's to fix, everything else is ours.
func statusFor(err error) int {
	var missing *domain.MissingColumnsError
	var badRow *domain.RowValidationError
	switch {
	case errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, domain.ErrUnreadableWorkbook),
		errors.As(err, &missing),
		errors.As(err, &badRow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// loggingMiddleware provides basic request logging.
func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
			slog.Duration("dur", time.Since(start)),
		)
	})
}
