package textserver

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/harveysanders/lcdfeed/internal/logging"
)

// MaxMessageSize bounds PUT bodies. The device reads at most 1 KiB anyway.
const MaxMessageSize = 1024

// Handler serves the store on "/".
type Handler struct {
	Store *Store
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		logging.LogHTTPRequest(r, rw.status, rw.size, time.Since(start))
	}()

	if r.URL.Path != "/" {
		http.NotFound(rw, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		msg, updated := h.Store.Current()
		rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
		rw.Header().Set("Content-Length", strconv.Itoa(len(msg)))
		rw.Header().Set("Last-Modified", updated.UTC().Format(http.TimeFormat))
		rw.Header().Set("Cache-Control", "no-store")
		_, _ = io.WriteString(rw, msg)
	case http.MethodPut:
		body, err := io.ReadAll(io.LimitReader(r.Body, MaxMessageSize+1))
		if err != nil {
			http.Error(rw, "failed to read body", http.StatusBadRequest)
			return
		}
		if len(body) > MaxMessageSize {
			http.Error(rw, "message too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.Store.Set(string(body))
		logging.Info("Message replaced", zap.Int("length", len(body)))
		rw.WriteHeader(http.StatusNoContent)
	default:
		rw.Header().Set("Allow", "GET, PUT")
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.size += n
	return n, err
}
