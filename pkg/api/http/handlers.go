package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aescanero/clustergram/internal/application/converter"
	"github.com/aescanero/clustergram/pkg/clustergram"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const jsonContentType = "application/json; charset=utf-8"

// statusClientClosedRequest is nginx's code for a request the client abandoned
const statusClientClosedRequest = 499

// ConvertRequest represents a matrix conversion request
type ConvertRequest struct {
	Data string `json:"data" binding:"required"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// handleHello answers the root liveness probe
func (s *Server) handleHello(c *gin.Context) {
	c.String(http.StatusOK, "Hello, World!")
}

// handleHealth handles health check requests. A failing dependency degrades
// the report but the service keeps answering.
func (s *Server) handleHealth(c *gin.Context) {
	status := "healthy"
	checks := map[string]string{}
	if s.health != nil {
		report := s.health.Status()
		checks = report.Checks
		if !report.Healthy {
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleOptions answers OPTIONS requests that are not CORS preflights
func (s *Server) handleOptions(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// handleConvert converts a matrix string into a viz document
func (s *Server) handleConvert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithBindError(c, err)
		return
	}

	out, err := s.converter.Convert(c.Request.Context(), req.Data)
	if err != nil {
		s.abortWithConversionError(c, err)
		return
	}

	c.Data(http.StatusOK, jsonContentType, []byte(out))
}

// handleConvertHeatmaps converts key visualizer heatmaps into a viz document
func (s *Server) handleConvertHeatmaps(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.abortWithBindError(c, err)
		return
	}

	out, err := s.converter.ConvertHeatmaps(c.Request.Context(), body)
	if err != nil {
		s.abortWithConversionError(c, err)
		return
	}

	c.Data(http.StatusOK, jsonContentType, []byte(out))
}

func (s *Server) abortWithBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.logger.Warn("request body too large", zap.Int64("limit", tooLarge.Limit))
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: ErrorDetail{
				Code:    "PAYLOAD_TOO_LARGE",
				Message: "request body too large",
				Details: gin.H{"limit_bytes": tooLarge.Limit},
			},
		})
		return
	}

	s.logger.Error("invalid request", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

func (s *Server) abortWithConversionError(c *gin.Context, err error) {
	var perr *clustergram.ParseError

	switch {
	case errors.Is(err, converter.ErrInvalidDocument):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})

	case errors.Is(err, converter.ErrInvalidMatrix):
		detail := ErrorDetail{
			Code:    "INVALID_MATRIX",
			Message: err.Error(),
		}
		if errors.As(err, &perr) {
			detail.Details = gin.H{"line": perr.Line}
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Error: detail})

	case errors.Is(err, converter.ErrTimeout):
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, ErrorResponse{
			Error: ErrorDetail{
				Code:    "CONVERSION_TIMEOUT",
				Message: "conversion took too long",
			},
		})

	case errors.Is(err, converter.ErrCanceled):
		s.logger.Warn("client canceled conversion",
			zap.String("request_id", c.GetString(requestIDKey)))
		c.AbortWithStatusJSON(statusClientClosedRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "REQUEST_CANCELED",
				Message: "request canceled by client",
			},
		})

	default:
		s.logger.Error("conversion failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "CONVERSION_FAILED",
				Message: "failed to convert matrix",
			},
		})
	}
}
