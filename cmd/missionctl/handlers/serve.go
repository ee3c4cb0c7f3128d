package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/imamik/missioncontrol/internal/booster"
	"github.com/imamik/missioncontrol/internal/launcherr"
	"github.com/imamik/missioncontrol/internal/missioncontrol"
	"github.com/imamik/missioncontrol/internal/projectile"
	"github.com/imamik/missioncontrol/internal/util/naming"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
	maxRequestBytes   = 1 << 20
)

// Serve handles the serve command.
//
// It starts indexing the catalog in the background and serves the launch
// API until ctx is cancelled.
func Serve(ctx context.Context, configPath, address string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if address == "" {
		address = cfg.Server.Address
	}

	svc, err := newServices(ctx, cfg, true)
	if err != nil {
		return err
	}
	svc.catalog.Index(ctx)

	logger := log.FromContext(ctx).WithName("server")
	server := &http.Server{
		Addr:              address,
		Handler:           newAPI(svc),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "address", address)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// api exposes the launcher over HTTP.
type api struct {
	mux         *http.ServeMux
	catalog     *booster.Catalog
	mission     *missioncontrol.MissionControl
	stagingRoot string
}

func newAPI(svc *services) *api {
	a := &api{
		mux:         http.NewServeMux(),
		catalog:     svc.catalog,
		mission:     svc.mission,
		stagingRoot: svc.cfg.Staging.Root,
	}
	a.routes()
	return a
}

// ServeHTTP satisfies http.Handler.
func (a *api) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	a.mux.ServeHTTP(w, req)
}

func (a *api) routes() {
	a.mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	a.mux.HandleFunc("GET /healthz", a.handleHealth)
	a.mux.HandleFunc("GET /readyz", a.handleReady)
	a.mux.HandleFunc("GET /api/boosters", a.handleBoosters)
	a.mux.HandleFunc("POST /api/launch", a.handleLaunch)
}

func (a *api) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) handleReady(w http.ResponseWriter, _ *http.Request) {
	if err := a.catalog.Err(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "failed", "error": err.Error()})
		return
	}
	if !a.catalog.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "indexing"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (a *api) handleBoosters(w http.ResponseWriter, _ *http.Request) {
	if err := a.catalog.Err(); err != nil {
		writeError(w, http.StatusServiceUnavailable, launcherr.CodeTemplateNotFound, "catalog is not available: "+err.Error(), nil)
		return
	}
	if !a.catalog.Ready() {
		writeError(w, http.StatusServiceUnavailable, "", "catalog is still indexing", nil)
		return
	}
	writeJSON(w, http.StatusOK, a.catalog.Boosters())
}

func (a *api) handleLaunch(w http.ResponseWriter, req *http.Request) {
	var payload projectile.CreateProjectileContext
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxRequestBytes)).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "", "invalid JSON body", nil)
		return
	}
	if payload.ProjectLocation == "" {
		prefix := payload.GitRepositoryName
		if prefix == "" {
			prefix = "launch"
		}
		payload.ProjectLocation = filepath.Join(a.stagingRoot, naming.Unique(prefix))
	}

	boom, err := a.mission.LaunchFromContext(req.Context(), payload)
	if err != nil {
		log.FromContext(req.Context()).Error(err, "launch failed", "booster", payload.BoosterID)
		writeLaunchError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, boom)
}

// statusFor maps a launch failure to an HTTP status.
func statusFor(code launcherr.Code) int {
	switch code {
	case launcherr.CodeTemplateNotFound:
		return http.StatusNotFound
	case launcherr.CodeInvalidProjectile:
		return http.StatusBadRequest
	case launcherr.CodeRepositoryCreateFailed, launcherr.CodePushFailed,
		launcherr.CodeProjectCreateFailed, launcherr.CodeResourceApplyFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeLaunchError(w http.ResponseWriter, err error) {
	var lerr *launcherr.Error
	if !errors.As(err, &lerr) {
		writeError(w, http.StatusInternalServerError, "", err.Error(), nil)
		return
	}
	writeError(w, statusFor(lerr.Code), lerr.Code, lerr.Error(), lerr.Compensation)
}

type errorBody struct {
	Code         launcherr.Code `json:"code,omitempty"`
	Message      string         `json:"message"`
	Compensation []string       `json:"compensation,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code launcherr.Code, message string, compensation []error) {
	body := errorBody{Code: code, Message: message}
	for _, err := range compensation {
		body.Compensation = append(body.Compensation, err.Error())
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
