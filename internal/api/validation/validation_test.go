package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vitalpoint/backend/pkg/errors"
)

func decode(t *testing.T, body string) interface{} {
	t.Helper()
	var value interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &value))
	return value
}

func TestClinicNearbySchema(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid",
			body: `{"latitude": 6.52, "longitude": 3.37, "radius": 5000, "type": "hospital"}`,
		},
		{
			name: "defaults allowed",
			body: `{"latitude": 6.52, "longitude": 3.37}`,
		},
		{
			name:    "missing coordinates",
			body:    `{"radius": 5000}`,
			wantErr: true,
		},
		{
			name:    "latitude out of range",
			body:    `{"latitude": 91, "longitude": 3.37}`,
			wantErr: true,
		},
		{
			name:    "zero radius rejected",
			body:    `{"latitude": 6.52, "longitude": 3.37, "radius": 0}`,
			wantErr: true,
		},
		{
			name:    "unknown field rejected",
			body:    `{"latitude": 6.52, "longitude": 3.37, "city": "Lagos"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClinicNearbySchema.Validate(decode(t, tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClinicSearchSchema(t *testing.T) {
	assert.NoError(t, ClinicSearchSchema.Validate(decode(t, `{"location": "Lagos", "radius": 10}`)))
	assert.NoError(t, ClinicSearchSchema.Validate(decode(t, `{"latitude": 6.5, "longitude": 3.3}`)))
	assert.NoError(t, ClinicSearchSchema.Validate(decode(t, `{"query": "dental"}`)))
	assert.Error(t, ClinicSearchSchema.Validate(decode(t, `{"radius": -1}`)))
}

func TestChatMessageSchema(t *testing.T) {
	assert.NoError(t, ChatMessageSchema.Validate(decode(t, `{"message": "I have a headache"}`)))
	assert.Error(t, ChatMessageSchema.Validate(decode(t, `{"message": ""}`)))
	assert.Error(t, ChatMessageSchema.Validate(decode(t, `{}`)))
}

func TestSymptomAnalysisSchema(t *testing.T) {
	assert.NoError(t, SymptomAnalysisSchema.Validate(decode(t, `{"symptoms": "fever and chills"}`)))
	assert.NoError(t, SymptomAnalysisSchema.Validate(decode(t, `{"symptoms": ["fever", "chills"], "duration": "2 days"}`)))
	assert.Error(t, SymptomAnalysisSchema.Validate(decode(t, `{"symptoms": []}`)))
	assert.Error(t, SymptomAnalysisSchema.Validate(decode(t, `{"duration": "2 days"}`)))
}

func TestValidationErrorCarriesDetails(t *testing.T) {
	err := ClinicCreateSchema.Validate(decode(t, `{"name": "Clinic"}`))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.NotEmpty(t, appErr.Details)
}
