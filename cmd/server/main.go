package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/liamcoop/bmi/bmi"
	"github.com/liamcoop/bmi/internal/config"
	"github.com/liamcoop/bmi/internal/logger"
	"github.com/liamcoop/bmi/rules"
	"github.com/liamcoop/bmi/scheme"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 64 << 10

type Server struct {
	cfg     config.Config
	schemes *scheme.Manager
	router  *chi.Mux
}

func NewServer(cfg config.Config) (*Server, error) {
	schemes, err := scheme.NewManagerWithBuiltins(rules.CacheConfig{TTL: cfg.RulesCacheTTL})
	if err != nil {
		return nil, err
	}

	if _, err := schemes.Engine(cfg.DefaultScheme); err != nil {
		return nil, err
	}

	logger.Info("Loaded classification schemes", "schemes", schemes.List(), "default", cfg.DefaultScheme)

	s := &Server{
		cfg:     cfg,
		schemes: schemes,
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/api/v1/health", s.handleHealth)
	r.Get("/api/v1/metrics", s.handleMetrics)

	// Calculation
	r.Post("/api/v1/bmi", s.handleCalculate)

	// Classification schemes
	r.Route("/api/v1/schemes", func(r chi.Router) {
		r.Get("/", s.handleListSchemes)

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleGetScheme)
			r.Post("/evaluate", s.handleEvaluate)
		})
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger logs each request through the structured logger
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"requestId", middleware.GetReqID(r.Context()),
		)
	})
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Schemes: len(s.schemes.List()),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, logger.Snapshot())
}

// Calculation handler
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	system, err := bmi.ParseSystem(req.System)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid measurement system", err)
		return
	}

	schemeName := req.Scheme
	if schemeName == "" {
		schemeName = s.cfg.DefaultScheme
	}

	calc, err := s.schemes.Calculator(schemeName)
	if err != nil {
		respondError(w, http.StatusNotFound, "scheme not found", err)
		return
	}

	result, err := calc.Compute(system, bmi.Inputs{
		HeightCm:  req.HeightCm,
		WeightKg:  req.WeightKg,
		HeightFt:  req.HeightFt,
		HeightIn:  req.HeightIn,
		WeightLbs: req.WeightLbs,
	})
	if err != nil {
		var verr *bmi.ValidationError
		if errors.As(err, &verr) {
			logger.CountValidationError()
			logger.WarnHttp4xx(http.StatusBadRequest)
			respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Field: verr.Field})
			return
		}
		respondError(w, http.StatusInternalServerError, "classification failed", err)
		return
	}

	// tiny heights can push the value past float64 range
	if !result.Finite() {
		logger.CountValidationError()
		logger.WarnHttp4xx(http.StatusBadRequest)
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: bmi.InvalidInputMessage})
		return
	}

	logger.CountCalculation()

	respondJSON(w, http.StatusOK, CalculateResponse{
		ID:            uuid.NewString(),
		System:        system.String(),
		Scheme:        schemeName,
		Value:         result.Value,
		Display:       result.Display(),
		Category:      result.Category,
		CategoryClass: result.Category.Class(),
		Message:       bmi.Message(result),
	})
}

// List schemes handler
func (s *Server) handleListSchemes(w http.ResponseWriter, r *http.Request) {
	resp := SchemesListResponse{Schemes: []SchemeResponse{}}
	for _, name := range s.schemes.List() {
		sc, err := s.schemes.Scheme(name)
		if err != nil {
			// removed concurrently
			continue
		}
		resp.Schemes = append(resp.Schemes, SchemeResponse{Name: sc.Name, Description: sc.Description})
	}

	respondJSON(w, http.StatusOK, resp)
}

// Get scheme handler
func (s *Server) handleGetScheme(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	sc, err := s.schemes.Scheme(name)
	if err != nil {
		respondError(w, http.StatusNotFound, "scheme not found", err)
		return
	}

	engine, err := s.schemes.Engine(name)
	if err != nil {
		respondError(w, http.StatusNotFound, "scheme not found", err)
		return
	}

	active, err := engine.Rules()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list rules", err)
		return
	}

	respondJSON(w, http.StatusOK, SchemeResponse{
		Name:        sc.Name,
		Description: sc.Description,
		Rules:       active,
	})
}

// Evaluation handler
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req EvaluateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.BMI == nil {
		respondError(w, http.StatusBadRequest, "bmi is required", nil)
		return
	}

	engine, err := s.schemes.Engine(name)
	if err != nil {
		respondError(w, http.StatusNotFound, "scheme not found", err)
		return
	}

	value := bmi.Round(*req.BMI)
	startTime := time.Now()

	results, err := engine.EvaluateAll(value)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "evaluation failed", err)
		return
	}

	resp := EvaluateResponse{
		Scheme:  name,
		Value:   value,
		Results: make([]EvaluationResultResponse, 0, len(results)),
	}
	for _, res := range results {
		item := EvaluationResultResponse{
			RuleID:   res.RuleID,
			RuleName: res.RuleName,
			Category: res.Category,
			Matched:  res.Matched,
		}
		if res.Error != nil {
			msg := res.Error.Error()
			item.Error = &msg
		}
		resp.Results = append(resp.Results, item)
	}

	category, err := rules.FirstMatch(results)
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Category = &category
	}
	resp.EvaluationTime = time.Since(startTime).String()

	respondJSON(w, http.StatusOK, resp)
}

// Helper functions

// decodeBody reads a size-limited JSON body into v and answers the request on failure
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(w, http.StatusRequestEntityTooLarge, "request body too large", err)
		return false
	}
	respondError(w, http.StatusBadRequest, "invalid request body", err)
	return false
}

// respondJSON encodes before writing the status so an encoding failure still yields a 500
func respondJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		logger.ErrorHttp5xx()
		logger.Error("failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to encode response"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	switch {
	case status >= 500:
		logger.ErrorHttp5xx()
		logger.Error(message, "status", status, "error", err)
	case status >= 400:
		logger.WarnHttp4xx(status)
	}

	response := ErrorResponse{Error: message}
	if err != nil {
		response.Details = err.Error()
	}
	respondJSON(w, status, response)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	server, err := NewServer(cfg)
	if err != nil {
		logger.Fatal("Failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")

	if err := logger.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
	}
}
