package server

import (
	"context"
	"downalert/internal/config"
	"downalert/internal/lib/sl"
	"downalert/internal/metrics"
	"downalert/internal/server/middleware"
	"downalert/internal/server/request"
	"downalert/internal/server/response"
	"downalert/internal/service"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Server struct {
	server *http.Server
	sites  *service.SitesService
	config config.ServerConfig
}

func New(
	sites *service.SitesService,
	gatherer prometheus.Gatherer,
	config config.ServerConfig,
) (*Server, error) {
	creds, err := config.Creds()
	if err != nil {
		return nil, err
	}

	s := &Server{
		sites:  sites,
		config: config,
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(middleware.Logging)
	router.Use(chimw.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	router.Group(func(r chi.Router) {
		if len(creds) > 0 {
			r.Use(chimw.BasicAuth("downalert", creds))
		} else {
			slog.Info("auth is disabled since no credentials are defined")
		}

		r.Handle("/metrics", metrics.Handler(gatherer))
		r.Route("/sites", func(r chi.Router) {
			r.Get("/", s.getSites)
			r.Post("/", s.addSite)
			r.Get("/{id}", s.getSite)
			r.Delete("/{id}", s.deleteSite)
		})
	})

	s.server = &http.Server{
		Addr:              config.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until ctx is cancelled and then shuts the server down.
func (s *Server) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		slog.Info("starting http server", slog.String("address", s.config.Address))
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func parseId(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func (s *Server) getSites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rawOwner := r.URL.Query().Get("owner_id")
	if rawOwner == "" {
		sites, err := s.sites.GetAllSites(ctx)
		if err != nil {
			slog.Error("failed to get all sites", sl.Error(err))
			response.WriteError(w, http.StatusInternalServerError, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, sites)
		return
	}

	ownerId, err := parseId(rawOwner)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err)
		return
	}
	sites, err := s.sites.GetAllSitesByOwnerId(ctx, ownerId)
	if err != nil {
		slog.Error("failed to get sites of owner", slog.Int64("owner_id", ownerId), sl.Error(err))
		response.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, sites)
}

func (s *Server) getSite(w http.ResponseWriter, r *http.Request) {
	id, err := parseId(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err)
		return
	}

	site, err := s.sites.GetSiteById(r.Context(), id)
	if err != nil {
		slog.Error("failed to get site by id", slog.Int64("id", id), sl.Error(err))
		response.WriteError(w, http.StatusInternalServerError, err)
		return
	} else if site == nil {
		response.WriteError(w, http.StatusNotFound, errors.New("no site with such id"))
		return
	}

	response.WriteJSON(w, http.StatusOK, site)
}

func (s *Server) addSite(w http.ResponseWriter, r *http.Request) {
	var req request.AddSite
	if err := request.ReadJSON(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid site: %w", err))
		return
	}

	site, err := s.sites.AddSite(r.Context(), req.OwnerId, req.Url)
	switch {
	case errors.Is(err, service.ErrInvalidURL):
		response.WriteError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, service.ErrAlreadyWatched):
		response.WriteError(w, http.StatusConflict, err)
		return
	case err != nil:
		slog.Error("failed to add site", sl.Error(err))
		response.WriteError(w, http.StatusInternalServerError, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, site)
}

func (s *Server) deleteSite(w http.ResponseWriter, r *http.Request) {
	id, err := parseId(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err)
		return
	}
	ownerId, err := parseId(r.URL.Query().Get("owner_id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, fmt.Errorf("owner_id: %w", err))
		return
	}

	err = s.sites.DeleteSiteFromOwner(r.Context(), ownerId, id)
	switch {
	case errors.Is(err, service.ErrSiteNotFound):
		response.WriteError(w, http.StatusNotFound, err)
		return
	case err != nil:
		slog.Error("failed to delete site", slog.Int64("id", id), sl.Error(err))
		response.WriteError(w, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
