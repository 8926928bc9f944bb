package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ifsflame/flameserver/jobengine"
	"github.com/ifsflame/flameserver/variation"
)

const (
	defaultPreviewSymmetry = 1
	defaultPreviewGamma    = 2.2
)

func (s *Server) listVariations(w http.ResponseWriter, r *http.Request) {
	type item struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		FormulaLatex string `json:"formula_latex"`
	}
	catalog := variation.Catalog()
	out := make([]item, len(catalog))
	for i, c := range catalog {
		out[i] = item{ID: c.ID, Name: c.Name, FormulaLatex: c.FormulaLatex}
	}
	writeJSON(w, http.StatusOK, map[string]any{"variations": out})
}

func (s *Server) getPreview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	symmetry := queryInt(r, "symmetry", defaultPreviewSymmetry)
	gamma := queryFloat(r, "gamma", defaultPreviewGamma)

	png, err := renderPreview(r.Context(), s.Blob, s.Config, id, symmetry, gamma)
	if err != nil {
		if errors.Is(err, variation.ErrUnknownVariation) {
			http.Error(w, "unknown variation id", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writePNG(w, png)
}

type startRenderRequest struct {
	VariationIDs []string `json:"variation_ids"`
	Symmetry     int      `json:"symmetry"`
	Gamma        float64  `json:"gamma"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
}

func (s *Server) startRender(w http.ResponseWriter, r *http.Request) {
	var req startRenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if len(req.VariationIDs) == 0 {
		http.Error(w, "variation_ids must not be empty", http.StatusBadRequest)
		return
	}
	if req.Symmetry < 1 {
		req.Symmetry = 1
	}
	if req.Gamma <= 0 {
		req.Gamma = defaultPreviewGamma
	}
	if req.Width <= 0 {
		req.Width = 800
	}
	if req.Height <= 0 {
		req.Height = 600
	}

	jobID, err := s.Engine.Start(jobengine.RenderRequest{
		VariationIDs: req.VariationIDs,
		Symmetry:     req.Symmetry,
		Gamma:        req.Gamma,
		Width:        req.Width,
		Height:       req.Height,
	})
	if err != nil {
		if errors.Is(err, jobengine.ErrEmptySelection) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}

func (s *Server) getResult(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["job_id"]
	res, err := s.Engine.Result(r.Context(), jobID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if !res.Ready {
		http.Error(w, "render pending", http.StatusAccepted)
		return
	}
	writePNG(w, res.Bytes)
}

func (s *Server) getIntermediate(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["job_id"]
	res, err := s.Engine.Intermediate(r.Context(), jobID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if !res.Ready {
		http.Error(w, "no intermediate snapshot yet", http.StatusNotFound)
		return
	}
	writePNG(w, res.Bytes)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writePNG(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
