package handler

import (
	"net/http"
	"testing"

	"github.com/birdwatch-dev/birdwatch/models"
)

func TestStatusForResult(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{models.ErrCodeInvalidInput, http.StatusBadRequest},
		{models.ErrCodeNotFound, http.StatusNotFound},
		{models.ErrCodeNoTweetsFound, http.StatusNotFound},
		{models.ErrCodeSuspended, http.StatusForbidden},
		{models.ErrCodeProtected, http.StatusForbidden},
		{models.ErrCodeAuthRequired, http.StatusForbidden},
		{models.ErrCodeRateLimited, http.StatusTooManyRequests},
		{models.ErrCodeTimeout, http.StatusGatewayTimeout},
		{models.ErrCodeNavigation, http.StatusBadGateway},
		{models.ErrCodeConnection, http.StatusBadGateway},
		{models.ErrCodeProfileLoadFailed, http.StatusBadGateway},
		{models.ErrCodeUnknown, http.StatusInternalServerError},
		{models.ErrCodeBrowserLaunch, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		r := &models.ScrapeResult{
			Success: false,
			Error:   &models.ErrorDetail{Code: tt.code},
		}
		if got := statusForResult(r); got != tt.want {
			t.Errorf("statusForResult(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}

	if got := statusForResult(&models.ScrapeResult{Success: true}); got != http.StatusOK {
		t.Errorf("success = %d, want 200", got)
	}
}
