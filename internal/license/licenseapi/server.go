package licenseapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/leighmacdonald/roster-tui/internal/license"
	"github.com/leighmacdonald/roster-tui/internal/network/encoding"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	Path        = "/api/license"
	MetricsPath = "/metrics"
	timeout     = 10 * time.Second
	maxBody     = 1 << 14
)

var ErrServe = errors.New("license api server error")

type Server struct {
	gate    license.Gate
	metrics *Metrics
	router  *httprouter.Router
}

// NewServer builds the router serving the gate. Metrics are registered with reg and exposed by gatherer.
func NewServer(gate license.Gate, reg prometheus.Registerer, gatherer prometheus.Gatherer) *Server {
	server := &Server{
		gate:    gate,
		metrics: NewMetrics(reg),
		router:  httprouter.New(),
	}

	server.router.PanicHandler = func(w http.ResponseWriter, r *http.Request, value any) {
		slog.Error("Panic handling license request", slog.String("path", r.URL.Path), slog.Any("panic", value))
		server.write(w, http.StatusInternalServerError, Response{Error: "Server error"})
	}

	server.router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		server.write(w, http.StatusMethodNotAllowed, Response{Error: "Method not allowed"})
	})

	server.router.POST(Path, server.handleLicense)
	server.router.OPTIONS(Path, server.handleOptions)
	server.router.Handler(http.MethodGet, MetricsPath, NewMetricsHandler(gatherer))

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve listens on the address until the context is cancelled.
func (s *Server) Serve(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	errs := make(chan error, 1)
	go func() {
		slog.Info("License api listening", slog.String("address", address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- errors.Join(err, ErrServe)
		}

		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Join(err, ErrServe)
	}

	return nil
}

func corsHeaders(w http.ResponseWriter) {
	headers := w.Header()
	headers.Set("Access-Control-Allow-Credentials", "true")
	headers.Set("Access-Control-Allow-Origin", "*")
	headers.Set("Access-Control-Allow-Methods", "GET,OPTIONS,POST")
	headers.Set("Access-Control-Allow-Headers", "X-Requested-With, Accept, Content-Length, Content-Type, Date")
}

func (s *Server) write(w http.ResponseWriter, status int, resp Response) {
	corsHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := encoding.WriteJSON(w, resp); err != nil {
		slog.Error("Failed to write license response", slog.String("error", err.Error()))
	}
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	corsHeaders(w)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLicense(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	started := time.Now()

	req, errDecode := encoding.UnmarshalJSON[Request](http.MaxBytesReader(w, r.Body, maxBody))
	if errDecode != nil {
		s.metrics.observe("unknown", "bad_request", time.Since(started).Seconds())
		s.write(w, http.StatusBadRequest, Response{Error: "Invalid request body"})

		return
	}

	status, resp := s.dispatch(r.Context(), req)

	result := "success"
	switch {
	case status != http.StatusOK:
		result = "bad_request"
		if status == http.StatusInternalServerError {
			result = "error"
		}
	case !resp.Success:
		result = "denied"
	}

	action := req.Action
	if status == http.StatusBadRequest {
		action = "unknown"
	}

	s.metrics.observe(action, result, time.Since(started).Seconds())
	s.write(w, status, resp)
}

func (s *Server) dispatch(ctx context.Context, req Request) (int, Response) {
	if req.Action == "" || req.LicenseKey == "" || req.HWID == "" {
		return http.StatusBadRequest, Response{Error: "Missing required parameters", Code: "invalid_params"}
	}

	switch req.Action {
	case ActionVerify:
		verification, err := s.gate.Verify(ctx, req.LicenseKey, req.HWID)
		if err != nil {
			return s.failure(err, verification.MaxDevices)
		}

		resp := Response{Success: true, Message: "License verified successfully"}
		if verification.CanRegister {
			resp.CanRegister = true
			resp.Message = "Device can be registered with this license"
		}

		return http.StatusOK, resp
	case ActionInfo:
		info, err := s.gate.Info(ctx, req.LicenseKey, req.HWID)
		if err != nil {
			return s.failure(err, 0)
		}

		return http.StatusOK, Response{Success: true, License: &info}
	case ActionRegister:
		if err := s.gate.Register(ctx, req.LicenseKey, req.HWID); err != nil {
			return s.failure(err, 0)
		}

		return http.StatusOK, Response{Success: true, Message: "Device registered successfully"}
	default:
		return http.StatusBadRequest, Response{Error: "Invalid action"}
	}
}

// failure converts gate errors into a denied response. Unknown errors are internal failures.
func (s *Server) failure(err error, maxDevices int) (int, Response) {
	code, known := codeOf(err)
	if !known {
		slog.Error("License gate failure", slog.String("error", err.Error()))

		return http.StatusInternalServerError, Response{Error: "Server error"}
	}

	resp := Response{Error: license.Message(err), Code: code}
	if errors.Is(err, license.ErrDeviceQuotaExceeded) {
		resp.MaxDevices = maxDevices
	}

	if errors.Is(err, license.ErrInvalidParams) {
		return http.StatusBadRequest, resp
	}

	return http.StatusOK, resp
}
