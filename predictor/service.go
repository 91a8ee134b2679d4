// Package predictor turns student profiles into salary estimates using a
// loaded model.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"salarypredict/logger"
	"salarypredict/ml"
	"salarypredict/monitoring"
)

// PredictSalary runs one inference. The frame's columns are the model's
// declared inputs in its declared order; inputs only supply the values.
func PredictSalary(inputs ml.FeatureRecord, model ml.Model) (float64, error) {
	frame := ml.NewFrame(model.FeatureNames())
	if err := frame.AppendRecord(inputs); err != nil {
		return 0, err
	}
	out, err := model.Predict(frame)
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("%w: expected one output, got %d", ml.ErrInvalidPrediction, len(out))
	}
	y := out[0]
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("%w: %v", ml.ErrInvalidPrediction, y)
	}
	if y < 0 {
		y = 0
	}
	return roundTo2(y), nil
}

// Prediction is the rendered result of one request.
type Prediction struct {
	SalaryLPA    float64 `json:"salary_lpa"`
	Display      string  `json:"display"`
	AnnualINR    int64   `json:"annual_inr"`
	Annual       string  `json:"annual"`
	ModelType    string  `json:"model_type"`
	ModelVersion string  `json:"model_version"`
}

type Options struct {
	// CacheSize bounds the memo of recent predictions; 0 disables it.
	CacheSize int
	Locale    string
	Logger    *zap.Logger
	Metrics   *monitoring.Metrics
}

// Service serves predictions from a single model bound to the form schema at
// construction. It is safe for concurrent use.
type Service struct {
	model     ml.Model
	schema    *Schema
	binding   *Binding
	validate  *validator.Validate
	formatter *Formatter
	cache     *lru.Cache[string, float64]
	log       *zap.Logger
	metrics   *monitoring.Metrics
}

func NewService(model ml.Model, schema *Schema, opts Options) (*Service, error) {
	if model == nil {
		return nil, errors.New("model is required")
	}
	if schema == nil {
		schema = StudentSchema()
	}
	binding, err := schema.Bind(model)
	if err != nil {
		return nil, err
	}
	if opts.Locale == "" {
		opts.Locale = "en-IN"
	}
	formatter, err := NewFormatter(opts.Locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", opts.Locale, err)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Service{
		model:     model,
		schema:    schema,
		binding:   binding,
		validate:  newValidator(),
		formatter: formatter,
		log:       log.Named("predictor"),
		metrics:   opts.Metrics,
	}
	if opts.CacheSize > 0 {
		s.cache, err = lru.New[string, float64](opts.CacheSize)
		if err != nil {
			return nil, err
		}
	}

	if binding.OrderDiffers {
		s.log.Warn("model declares its inputs in a different order than the form; using model order",
			zap.Strings("model_order", binding.ModelOrder),
			zap.Strings("form_order", binding.FormOrder))
	}
	return s, nil
}

func (s *Service) Schema() *Schema { return s.schema }

func (s *Service) Binding() *Binding { return s.binding }

func (s *Service) Model() ml.Model { return s.model }

// Predict validates the profile's enum fields, clamps its numeric fields and
// returns the model's estimate.
func (s *Service) Predict(ctx context.Context, profile StudentProfile) (Prediction, error) {
	log := logger.For(ctx, s.log)

	if err := s.validateProfile(profile); err != nil {
		s.observeFailure(monitoring.OutcomeInvalidInput)
		log.Info("rejected profile", zap.Error(err))
		return Prediction{}, err
	}

	record := s.schema.Record(profile)
	key := s.cacheKey(record)
	if s.cache != nil {
		if salary, ok := s.cache.Get(key); ok {
			if s.metrics != nil {
				s.metrics.ObservePrediction(monitoring.OutcomeCached, 0, salary)
			}
			log.Debug("prediction served from cache", zap.Float64("salary_lpa", salary))
			return s.render(salary), nil
		}
	}

	start := time.Now()
	salary, err := PredictSalary(record, s.model)
	took := time.Since(start)
	if err != nil {
		if errors.Is(err, ml.ErrSchemaMismatch) {
			s.observeFailure(monitoring.OutcomeSchemaMismatch)
			log.Error("model and form schema have drifted", zap.Error(err))
		} else {
			s.observeFailure(monitoring.OutcomeError)
			log.Error("prediction failed", zap.Error(err))
		}
		return Prediction{}, err
	}

	if s.cache != nil {
		s.cache.Add(key, salary)
	}
	if s.metrics != nil {
		s.metrics.ObservePrediction(monitoring.OutcomeOK, took, salary)
	}
	log.Info("predicted salary",
		zap.Float64("salary_lpa", salary),
		zap.Duration("took", took))
	return s.render(salary), nil
}

func (s *Service) render(salary float64) Prediction {
	return Prediction{
		SalaryLPA:    salary,
		Display:      s.formatter.LPA(salary),
		AnnualINR:    AnnualRupees(salary),
		Annual:       s.formatter.Annual(salary),
		ModelType:    s.model.Name(),
		ModelVersion: s.model.Version(),
	}
}

func (s *Service) validateProfile(profile StudentProfile) error {
	err := s.validate.Struct(profile)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if f, ok := s.schema.Field(fe.Field()); ok && f.Kind == FieldEnum {
			fields[f.Name] = fmt.Sprintf("must be one of %s", strings.Join(f.Options, ", "))
			continue
		}
		fields[fe.Field()] = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return &InputError{Fields: fields}
}

// newValidator reports fields by their json names, which match the schema.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// cacheKey encodes the record in model order so equal inputs share an entry.
func (s *Service) cacheKey(record ml.FeatureRecord) string {
	var b strings.Builder
	for _, name := range s.binding.ModelOrder {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(record[name].String())
		b.WriteByte(';')
	}
	return b.String()
}

func (s *Service) observeFailure(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveFailure(outcome)
	}
}
