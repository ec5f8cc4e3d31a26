package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// BaseURL prefixes every API operation.
const BaseURL = "/api/v1"

//go:embed openapi.yaml
var openAPISpec []byte

// OpenAPIDocument parses and validates the embedded API description.
func OpenAPIDocument(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

type requestValidator struct {
	validate *validator.Validate
}

func (v requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// NewRouter builds the echo instance serving the API, its OpenAPI document,
// Swagger UI, health and metrics endpoints.
func NewRouter(ctx context.Context, server ServerInterface, m *metrics.Metrics, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := OpenAPIDocument(ctx)
	if err != nil {
		return nil, err
	}
	docJSON, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(metricsMiddleware(m))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	e.GET("/openapi.json", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, docJSON)
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/openapi.json")))

	RegisterHandlersWithBaseURL(e, server, BaseURL)

	return e, nil
}

func metricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			m.RecordHTTPRequest(c.Request().Method, c.Path(), c.Response().Status, time.Since(start))
			return nil
		}
	}
}

// ErrorHandler writes errors as Error bodies. Domain errors are mapped by
// kind; Problem messages are logged and replaced with a generic one.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Error("write error response", slog.Any("error", writeErr))
		}
	}
}

func errorResponse(err error) (int, Error) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, Error{Code: requestCode(httpErr.Code), Message: fmt.Sprint(httpErr.Message)}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest, Error{Code: "Request.Invalid", Message: describe(validationErrs)}
	}

	code := errs.CodeOf(err)
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		return http.StatusNotFound, Error{Code: code, Message: err.Error()}
	case errs.KindValidation:
		return http.StatusBadRequest, Error{Code: code, Message: err.Error()}
	case errs.KindConflict:
		return http.StatusConflict, Error{Code: code, Message: err.Error()}
	default:
		return http.StatusInternalServerError, Error{Code: code, Message: "internal error"}
	}
}

func requestCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Request.Invalid"
	case http.StatusNotFound:
		return "Request.NotFound"
	case http.StatusMethodNotAllowed:
		return "Request.MethodNotAllowed"
	case http.StatusRequestEntityTooLarge:
		return "Request.TooLarge"
	}
	if status >= http.StatusInternalServerError {
		return "General.Problem"
	}
	return "Request.Rejected"
}

func describe(validationErrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		field := fe.Field()
		if field != "" {
			field = strings.ToLower(field[:1]) + field[1:]
		}
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
