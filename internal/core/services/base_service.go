package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/SscSPs/property_ledger/internal/core/domain"
	"github.com/SscSPs/property_ledger/internal/dto"
	"github.com/SscSPs/property_ledger/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// requestValidator checks the same `binding` tags gin uses, so callers that bypass
// the HTTP layer get identical validation.
var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}

// BaseService provides common functionality for all services
type BaseService struct {
	Clock func() time.Time
}

// ServiceOption configures the BaseService of any service.
type ServiceOption func(*BaseService)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

func newBaseService(options ...ServiceOption) BaseService {
	base := BaseService{Clock: func() time.Time { return time.Now().UTC() }}
	for _, option := range options {
		option(&base)
	}
	return base
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// ValidateRequest runs the binding tags of a request struct and wraps failures in ErrValidation.
func (s *BaseService) ValidateRequest(req any) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", apperrors.ErrValidation, field)
	}
	return t, nil
}

// parsePeriod accepts YYYY-MM or a full date and returns the first day of that month.
func parsePeriod(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(domain.SettlementPeriodLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dto.DateLayout, value); err == nil {
		return domain.FirstOfMonth(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: %s must be a month in YYYY-MM format", apperrors.ErrValidation, field)
}

// requiredAmount rejects an absent or null amount instead of reading it as zero.
func requiredAmount(amount *decimal.Decimal) (decimal.Decimal, error) {
	if amount == nil {
		return decimal.Zero, fmt.Errorf("%w: amount is required", apperrors.ErrValidation)
	}
	return *amount, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
