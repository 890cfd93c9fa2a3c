package lookup

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		status      int
		want        Classification
		severity    Severity
		opensModal  bool
		showsDetail bool
	}{
		{http.StatusOK, AlreadyExists, SeverityInfo, true, true},
		{http.StatusCreated, Created, SeveritySuccess, true, true},
		{http.StatusNotFound, NotFound, SeverityError, true, false},
		{http.StatusBadRequest, ValidationError, SeverityError, false, false},
		{http.StatusTeapot, Unexpected, SeverityError, true, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			got := Classify(tt.status)
			assert.Equal(t, tt.want, got.Classification)
			assert.Equal(t, tt.severity, got.Severity)
			assert.Equal(t, tt.opensModal, got.OpensModal)
			assert.Equal(t, tt.showsDetail, got.ShowsDetail)
			assert.NotEmpty(t, got.Message)
		})
	}
}
