package http

import (
	"net/http"

	"go.uber.org/zap"

	"salarypredict/predictor"
)

type formPage struct {
	Groups []formGroup
	Result *predictor.Prediction
	Error  string
}

type formGroup struct {
	Title  string
	Fields []formField
}

type formField struct {
	predictor.Field
	Value string
	Step  string
}

func (h *handlers) handleForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, http.StatusOK, h.svc.Schema().Defaults(), nil, "")
}

func (h *handlers) handleFormPredict(w http.ResponseWriter, r *http.Request) {
	schema := h.svc.Schema()
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, http.StatusBadRequest, schema.Defaults(), nil, "could not read the form: "+err.Error())
		return
	}
	profile, err := schema.ParseValues(r.PostForm.Get)
	if err != nil {
		h.renderForm(w, http.StatusBadRequest, schema.Defaults(), nil, err.Error())
		return
	}

	prediction, err := h.svc.Predict(r.Context(), profile)
	if err != nil {
		status, msg := classify(err)
		h.renderForm(w, status, schema.Clamp(profile), nil, msg)
		return
	}
	h.renderForm(w, http.StatusOK, schema.Clamp(profile), &prediction, "")
}

func (h *handlers) renderForm(w http.ResponseWriter, status int, profile predictor.StudentProfile, result *predictor.Prediction, msg string) {
	page := formPage{Result: result, Error: msg}
	index := map[string]int{}
	for _, f := range h.svc.Schema().Fields() {
		i, ok := index[f.Group]
		if !ok {
			i = len(page.Groups)
			index[f.Group] = i
			page.Groups = append(page.Groups, formGroup{Title: f.Group})
		}
		page.Groups[i].Fields = append(page.Groups[i].Fields, formField{
			Field: f,
			Value: valueText(f, profile),
			Step:  stepFor(f),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.form.Execute(w, page); err != nil {
		h.log.Error("render form", zap.Error(err))
	}
}

func valueText(f predictor.Field, profile predictor.StudentProfile) string {
	v := f.Get(profile)
	if x, ok := v.Float(); ok {
		return formatNumber(x)
	}
	return v.String()
}

func stepFor(f predictor.Field) string {
	if f.Kind == predictor.FieldInteger {
		return "1"
	}
	return "0.01"
}
