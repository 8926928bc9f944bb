// Package httpapi exposes the job engine and variation catalog over HTTP,
// routed with gorilla/mux per the external interface table.
package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ifsflame/flameserver/config"
	"github.com/ifsflame/flameserver/jobengine"
	"github.com/ifsflame/flameserver/store"
)

// Server wires the job engine, blob store, and config into an http.Handler.
type Server struct {
	Engine *jobengine.Engine
	Blob   store.BlobStore
	Config config.Config
}

// NewRouter builds the full route table.
func NewRouter(s *Server) *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc("/api/variations", s.listVariations).Methods(http.MethodGet)
	r.HandleFunc("/api/variations/{id}/preview", s.getPreview).Methods(http.MethodGet)
	r.HandleFunc("/api/render/start", s.startRender).Methods(http.MethodPost)
	r.HandleFunc("/api/render/{job_id}/result", s.getResult).Methods(http.MethodGet)
	r.HandleFunc("/api/render/{job_id}/intermediate", s.getIntermediate).Methods(http.MethodGet)
	r.HandleFunc("/api/render/{job_id}/progress", s.streamProgress).Methods(http.MethodGet)

	return r
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		log.Printf("%s %s %s", req.Method, req.URL.Path, time.Since(start))
	})
}
