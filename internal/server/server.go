package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-affordability/internal/analysis"
	"github.com/iwvelando/mortgage-affordability/internal/cache"
	"github.com/iwvelando/mortgage-affordability/internal/config"
	"github.com/iwvelando/mortgage-affordability/internal/metrics"
	"github.com/iwvelando/mortgage-affordability/pkg/affordability"
	"github.com/iwvelando/mortgage-affordability/pkg/constants"
	"github.com/iwvelando/mortgage-affordability/pkg/output"
	"github.com/iwvelando/mortgage-affordability/pkg/summary"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

const analysisCacheNamespace = "analysis"

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	cache         cache.Cache
}

// NewHandler constructs the HTTP handler that serves the web UI and the
// affordability API. A nil cache disables response caching.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, analysisCache cache.Cache) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if analysisCache == nil {
		analysisCache = cache.Nop{}
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion, cache: analysisCache}

	mux := http.NewServeMux()

	// Analysis API endpoint for editor-driven updates
	mux.Handle("/api/analysis", h.instrument("/api/analysis", h.handleAnalysis))

	// Analysis API endpoint (file upload)
	mux.Handle("/api/analysis/upload", h.instrument("/api/analysis/upload", h.handleAnalysisUpload))

	// Single price check
	mux.Handle("/api/evaluate", h.instrument("/api/evaluate", h.handleEvaluate))

	// Config serialization endpoint for editor downloads
	mux.Handle("/api/editor/export", h.instrument("/api/editor/export", h.handleConfigExport))

	// Version endpoint for UI metadata
	mux.Handle("/api/version", h.instrument("/api/version", h.handleVersion))

	mux.Handle("/metrics", promhttp.Handler())

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	fileServer := http.FileServer(http.FS(sub))
	mux.Handle("/", fileServer)

	return mux
}

type analysisResponse struct {
	Analysis    *analysis.Analysis     `json:"analysis"`
	Summary     string                 `json:"summary"`
	SummaryHTML string                 `json:"summaryHtml"`
	CSV         string                 `json:"csv"`
	Warnings    []string               `json:"warnings,omitempty"`
	Duration    string                 `json:"duration"`
	Config      map[string]interface{} `json:"config,omitempty"`
	ConfigYAML  string                 `json:"configYaml,omitempty"`
}

type evaluateRequest struct {
	Price                     float64 `json:"price"`
	MonthlyNetIncome          float64 `json:"monthlyNetIncome"`
	MaxInstallmentRatio       float64 `json:"maxInstallmentRatio"`
	LoanToValueRatio          float64 `json:"loanToValueRatio"`
	AnnualInterestRatePercent float64 `json:"annualInterestRatePercent"`
	LoanTermYears             int     `json:"loanTermYears"`
	CurrencySymbol            string  `json:"currencySymbol,omitempty"`
}

type evaluateResponse struct {
	Evaluation affordability.PriceEvaluation `json:"evaluation"`
	Verdict    string                        `json:"verdict"`
	Summary    string                        `json:"summary"`
}

func (h *handler) handleAnalysisUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(r, w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), "server.handleAnalysisUpload")
			return
		}
		h.respondErrorWithOp(r, w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), "server.handleAnalysisUpload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(r, w, http.StatusBadRequest, "missing configuration file", "server.handleAnalysisUpload")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.requestLogger(r).Warn("failed to close uploaded file",
				zap.String("op", "server.handleAnalysisUpload"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(r, w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), "server.handleAnalysisUpload")
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(r, w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), "server.handleAnalysisUpload")
		return
	}

	h.runAnalysis(w, r, configBytes, configMap, start, "server.handleAnalysisUpload")
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var payload map[string]interface{}
	if !h.decodeJSONBody(w, r, &payload, "configuration", "server.handleAnalysis") {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(r, w, http.StatusBadRequest, "invalid config payload: expected object", "server.handleAnalysis")
			return
		}
		configPayload = cfgMap
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondErrorWithOp(r, w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleAnalysis")
		return
	}

	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(r, w, http.StatusBadRequest, fmt.Sprintf("failed to parse configuration: %v", err), "server.handleAnalysis")
		return
	}

	h.runAnalysis(w, r, configBytes, configMap, start, "server.handleAnalysis")
}

func (h *handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req evaluateRequest
	if !h.decodeJSONBody(w, r, &req, "request", "server.handleEvaluate") {
		return
	}

	in := affordability.Inputs{
		MonthlyNetIncome:          req.MonthlyNetIncome,
		LoanTermYears:             req.LoanTermYears,
		MaxInstallmentRatio:       req.MaxInstallmentRatio,
		AnnualInterestRatePercent: req.AnnualInterestRatePercent,
		LoanToValueRatio:          req.LoanToValueRatio,
	}
	err := in.Validate()
	var eval affordability.PriceEvaluation
	if err == nil {
		eval, err = affordability.EvaluatePrice(req.Price, in.LoanToValueRatio, in.AnnualInterestRatePercent,
			in.LoanTermYears, in.MaxInstallment())
	}
	metrics.ObserveCalculation("evaluate_price", err)
	if err != nil {
		h.respondErrorWithOp(r, w, statusForError(err), err.Error(), "server.handleEvaluate")
		return
	}

	h.writeJSON(w, http.StatusOK, evaluateResponse{
		Evaluation: eval,
		Verdict:    summary.Verdict(eval),
		Summary:    summary.PriceCheck(req.CurrencySymbol, in, eval),
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if !h.decodeJSONBody(w, r, &payload, "configuration", "server.handleConfigExport") {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(r, w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// configKeyOrder is the section order of exported configurations; unknown
// keys follow alphabetically.
var configKeyOrder = []string{"borrower", "rates", "downPayment", "prices", "chart", "logging", "output"}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range configKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) runAnalysis(w http.ResponseWriter, r *http.Request, configBytes []byte, configMap map[string]interface{}, start time.Time, op string) {
	logger := h.requestLogger(r)
	ctx := r.Context()

	if configMap == nil {
		configMap = make(map[string]interface{})
	}

	// Key on the decoded map so formatting differences in the YAML do not
	// produce distinct entries.
	canonical, err := yaml.Marshal(configMap)
	if err != nil {
		canonical = configBytes
	}
	key := cache.Key(analysisCacheNamespace, canonical)

	cached, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("analysis cache lookup failed",
			zap.String("op", op),
			zap.Error(err),
		)
	}
	if ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		w.Header().Set("X-Cache", "hit")
		h.writeRawJSON(w, http.StatusOK, cached)
		return
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(r, w, http.StatusBadRequest, err.Error(), op)
		return
	}

	result, err := analysis.Build(ctx, logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(r, w, statusForError(err), err.Error(), op)
		return
	}

	markdown := summary.Markdown(result)
	html, err := summary.HTML(markdown)
	if err != nil {
		h.respondErrorWithOp(r, w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	elapsed := time.Since(start)

	response := analysisResponse{
		Analysis:    result,
		Summary:     markdown,
		SummaryHTML: html,
		CSV:         output.CsvString(result),
		Warnings:    result.Warnings,
		Duration:    elapsed.String(),
		Config:      configMap,
		ConfigYAML:  string(configBytes),
	}

	body, err := json.Marshal(response)
	if err != nil {
		h.respondErrorWithOp(r, w, http.StatusInternalServerError, fmt.Sprintf("failed to encode analysis: %v", err), op)
		return
	}

	if err := h.cache.Set(ctx, key, body); err != nil {
		logger.Warn("failed to cache analysis",
			zap.String("op", op),
			zap.Error(err),
		)
	}

	logger.Info("analysis computed",
		zap.String("op", op),
		zap.Int("sweepSamples", len(result.Sweep)),
		zap.Int("prices", len(result.Prices)),
		zap.Duration("duration", elapsed),
	)

	w.Header().Set("X-Cache", "miss")
	h.writeRawJSON(w, http.StatusOK, body)
}

// decodeJSONBody decodes a request body bounded by the upload limit into v.
// On failure it writes the error response and returns false.
func (h *handler) decodeJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, what, op string) bool {
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(r, w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(r, w, http.StatusBadRequest, fmt.Sprintf("failed to decode %s: %v", what, err), op)
		return false
	}
	return true
}

// statusForError maps rejected inputs to 400 and everything else to 500.
func statusForError(err error) int {
	if errors.Is(err, affordability.ErrInvalidParameter) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondErrorWithOp(r *http.Request, w http.ResponseWriter, status int, msg string, op string) {
	h.requestLogger(r).Error("analysis request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
