package poller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler exposes the assembled triple as JSON for the presentation layer:
// the validator table, the network summary and the stake distribution.
// Before the first successful refresh every data route answers 503.
func (p *Poller) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/api/validators", func(w http.ResponseWriter, _ *http.Request) {
		p.render(w, func(res *Result) any { return res.Validators })
	})
	r.Get("/api/network", func(w http.ResponseWriter, _ *http.Request) {
		p.render(w, func(res *Result) any { return res.Network })
	})
	r.Get("/api/stake", func(w http.ResponseWriter, _ *http.Request) {
		p.render(w, func(res *Result) any { return res.Stake })
	})
	r.Get("/api/refresh", func(w http.ResponseWriter, _ *http.Request) {
		res, err := p.Refresh()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, res)
	})

	return r
}

func (p *Poller) render(w http.ResponseWriter, pick func(*Result) any) {
	res := p.Last()
	if res == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, pick(res))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
