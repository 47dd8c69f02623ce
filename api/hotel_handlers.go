package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gilby125/hotel-availability/engine"
	"github.com/gilby125/hotel-availability/pkg/logger"
	"github.com/gin-gonic/gin"
)

func errorBody(errs ...string) gin.H {
	return gin.H{"status": "error", "errors": errs}
}

// readBody reads the raw request body, writing a 400 or 413 on failure.
func readBody(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorBody(fmt.Sprintf("Request body exceeds %d bytes", MaxBodyBytes)))
			return nil, false
		}
		c.JSON(http.StatusBadRequest, errorBody("Failed to read request body"))
		return nil, false
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, errorBody("Request body is empty"))
		return nil, false
	}
	return data, true
}

// ProcessAvailability validates an AvailRQ document, runs the supplier calls
// and returns the priced offers.
func ProcessAvailability(svc HotelService, log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(c *gin.Context) {
		data, ok := readBody(c)
		if !ok {
			return
		}

		resp, err := svc.Process(c.Request.Context(), data)
		if err != nil {
			var invalidReq *engine.InvalidRequestError
			var invalidResp *engine.InvalidResponseError
			switch {
			case errors.As(err, &invalidReq):
				c.JSON(http.StatusBadRequest, errorBody(invalidReq.Errors...))
			case errors.As(err, &invalidResp):
				c.JSON(http.StatusBadGateway, errorBody(invalidResp.Error()))
			default:
				_ = c.Error(err)
				log.WithContext(c.Request.Context()).Error(err, "Availability request failed")
				c.JSON(http.StatusInternalServerError, errorBody("Internal server error"))
			}
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// ParseRequest runs the handler for a fixed kind and returns its envelope:
// 200 on success, 400 otherwise.
func ParseRequest(svc HotelService, kind engine.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := readBody(c)
		if !ok {
			return
		}
		respond(c, svc, kind, data)
	}
}

// ParseKind is ParseRequest with the kind taken from the path.
func ParseKind(svc HotelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, err := engine.ParseKind(c.Param("kind"))
		if err != nil {
			c.JSON(http.StatusNotFound, errorBody(err.Error()))
			return
		}
		data, ok := readBody(c)
		if !ok {
			return
		}
		respond(c, svc, kind, data)
	}
}

func respond(c *gin.Context, svc HotelService, kind engine.Kind, data []byte) {
	result := svc.Parse(kind, data)
	status := http.StatusOK
	if !result.OK() {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}
