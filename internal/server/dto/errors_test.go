package dto

import (
	"errors"
	"net/http"
	"testing"
)

func TestAPIErrorWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := StorageError("Failed to save cards").Wrap(cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if got := err.Error(); got != "Failed to save cards: disk full" {
		t.Errorf("Error() = %q", got)
	}
	if err.StatusCode() != http.StatusInternalServerError {
		t.Errorf("status = %d", err.StatusCode())
	}
	if err.Code() != ErrorCodeStorageError {
		t.Errorf("code = %q", err.Code())
	}
}

func TestAPIErrorAsErrorWithStatus(t *testing.T) {
	var ews ErrorWithStatus
	err := error(MissingField("cards"))
	if !errors.As(err, &ews) {
		t.Fatal("APIError does not satisfy ErrorWithStatus via errors.As")
	}
	if ews.StatusCode() != http.StatusBadRequest {
		t.Errorf("status = %d", ews.StatusCode())
	}
	if ews.Code() != ErrorCodeMissingField {
		t.Errorf("code = %q", ews.Code())
	}
}

func TestRateLimitExceededDetails(t *testing.T) {
	err := RateLimitExceeded(30)
	if err.StatusCode() != http.StatusTooManyRequests {
		t.Errorf("status = %d", err.StatusCode())
	}
	if got := err.Details()["retry_after_seconds"]; got != 30 {
		t.Errorf("retry_after_seconds = %v", got)
	}
}
