package get_popup_reservations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(1, 900, "2025-03-17", "CANCELLED", "true")
	require.NoError(t, err)

	require.NotNil(t, req.Date)
	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), *req.Date)
	require.NotNil(t, req.Status)
	assert.Equal(t, "CANCELLED", *req.Status)
	assert.True(t, req.IncludeInactive)

	req, err = ToServiceRequest(1, 900, "", "", "")
	require.NoError(t, err)
	assert.Nil(t, req.Date)
	assert.Nil(t, req.Status)
	assert.False(t, req.IncludeInactive)
}

func TestToServiceRequest_Invalid(t *testing.T) {
	tests := []struct {
		name, date, status, includeInactive string
	}{
		{name: "date", date: "2025/03/17"},
		{name: "status", status: "PENDING"},
		{name: "includeInactive", includeInactive: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToServiceRequest(1, 900, tt.date, tt.status, tt.includeInactive)
			assert.Error(t, err)
		})
	}
}
