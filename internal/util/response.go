package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ResponseError is a domain error carrying the HTTP status it maps to.
// Handlers raise it at the point of detection and pass it to Fail unchanged.
type ResponseError struct {
	Status  int
	Message string
}

func (e *ResponseError) Error() string {
	return e.Message
}

func NewResponseError(message string, status int) *ResponseError {
	return &ResponseError{Status: status, Message: message}
}

// ErrValidation marks malformed or missing input (400).
func ErrValidation(message string) *ResponseError {
	return NewResponseError(message, http.StatusBadRequest)
}

// ErrNotFound marks an absent entity or one not owned by the caller (404).
func ErrNotFound(message string) *ResponseError {
	return NewResponseError(message, http.StatusNotFound)
}

// ErrForbidden marks a role check failure (403).
func ErrForbidden(message string) *ResponseError {
	return NewResponseError(message, http.StatusForbidden)
}

// ErrUpload marks an asset store failure (500).
func ErrUpload(message string) *ResponseError {
	return NewResponseError(message, http.StatusInternalServerError)
}

// Success writes the standard success envelope.
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"status":  true,
		"message": message,
		"data":    data,
	})
}

// Fail is the single boundary translator: error kind -> status + envelope.
// Anything that is not a ResponseError counts as unexpected (500).
func Fail(c *gin.Context, err error) {
	if respErr, ok := err.(*ResponseError); ok {
		c.JSON(respErr.Status, gin.H{
			"status":  false,
			"message": respErr.Message,
		})
		return
	}

	logrus.WithError(err).Error("unexpected error")
	c.JSON(http.StatusInternalServerError, gin.H{
		"status":  false,
		"message": "Terjadi kesalahan pada server",
	})
}
