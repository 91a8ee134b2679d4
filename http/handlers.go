package http

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"salarypredict/ml"
	"salarypredict/monitoring"
	"salarypredict/predictor"
)

//go:embed templates/*.html
var templateFS embed.FS

var knownRoutes = map[string]bool{
	"/":            true,
	"/predict":     true,
	"/api/predict": true,
	"/api/schema":  true,
	"/api/health":  true,
	"/metrics":     true,
}

func routeLabel(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

type handlers struct {
	svc     *predictor.Service
	metrics *monitoring.Metrics
	log     *zap.Logger
	form    *template.Template
}

func newHandlers(svc *predictor.Service, metrics *monitoring.Metrics, log *zap.Logger) (*handlers, error) {
	if svc == nil {
		return nil, errors.New("prediction service is required")
	}
	form, err := template.ParseFS(templateFS, "templates/form.html")
	if err != nil {
		return nil, err
	}
	return &handlers{svc: svc, metrics: metrics, log: log, form: form}, nil
}

func (h *handlers) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleForm)
	mux.HandleFunc("POST /predict", h.handleFormPredict)
	mux.HandleFunc("POST /api/predict", h.handlePredict)
	mux.HandleFunc("GET /api/schema", h.handleSchema)
	mux.HandleFunc("GET /api/health", handleHealth)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	var profile predictor.StudentProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	prediction, err := h.svc.Predict(r.Context(), profile)
	if err != nil {
		status, msg := classify(err)
		var inputErr *predictor.InputError
		if errors.As(err, &inputErr) {
			respondJSON(w, status, map[string]interface{}{"error": msg, "fields": inputErr.Fields})
			return
		}
		writeError(w, status, msg)
		return
	}
	respondJSON(w, http.StatusOK, prediction)
}

func (h *handlers) handleSchema(w http.ResponseWriter, r *http.Request) {
	model := h.svc.Model()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fields":  h.svc.Schema().Fields(),
		"binding": h.svc.Binding(),
		"model": map[string]string{
			"type":    model.Name(),
			"version": model.Version(),
		},
		"unit": "LPA",
	})
}

// classify 将错误映射为HTTP状态码和对外消息，错误日志已由预测服务记录
func classify(err error) (int, string) {
	var inputErr *predictor.InputError
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ml.ErrSchemaMismatch):
		return http.StatusInternalServerError, "model schema does not match the form; contact the operator"
	default:
		return http.StatusInternalServerError, "prediction failed"
	}
}

// respondJSON 统一JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func formatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
