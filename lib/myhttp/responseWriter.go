package myhttp

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/skysightdata/checkout/lib/myerrors"
	"github.com/skysightdata/checkout/lib/mylog"
)

type ResponseWriter interface {
	WriteError(c context.Context, w http.ResponseWriter, errorCode int, err error)
	Write(c context.Context, w http.ResponseWriter, httpStatus int, resp interface{})
}

type errorResponse struct {
	ErrorCode int
	Message   string
}

type SuccessResponse struct {
	Message string
}

func NewWriter(logger mylog.Logger) ResponseWriter {
	return &responseWriter{
		logger: logger,
	}
}

type responseWriter struct {
	logger mylog.Logger
}

// WriteError logs the full error but only returns its public message to the caller.
func (rw responseWriter) WriteError(c context.Context, w http.ResponseWriter, errorCode int, err error) {
	httpStatus := myerrors.GetHTTPStatus(err)
	severity := mylog.SeverityWarn
	if httpStatus >= http.StatusInternalServerError {
		severity = mylog.SeverityError
	}
	rw.logger.Log(c, "", severity, "Error response: http-status:%d, error-code:%d, error-msg:%s", httpStatus, errorCode, err)
	rw.write(w, httpStatus, errorResponse{
		ErrorCode: errorCode,
		Message:   myerrors.GetPublicMessage(err),
	})
}

func (rw responseWriter) Write(c context.Context, w http.ResponseWriter, httpStatus int, resp interface{}) {
	rw.logger.Log(c, "", mylog.SeverityInfo, "Success response: http-status:%d", httpStatus)
	rw.write(w, httpStatus, resp)
}

func (rw responseWriter) write(w http.ResponseWriter, httpStatus int, resp interface{}) {
	body, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		log.Printf("Error encoding response: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_, err = w.Write(body)
	if err != nil {
		log.Printf("Error writing response: %s", err)
	}
}
