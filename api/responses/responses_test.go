package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
	"github.com/greenplains/sapbridge-backend/pkg/types"
)

func decodeError(t *testing.T, body []byte) types.ErrorEnvelope {
	t.Helper()
	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "live"})

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope types.SuccessEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "live", data["status"])
}

func TestWriteErrorValidationExposesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "hour must be between 0 and 23").
		WithDetails(map[string]string{"hour": "out of range"})
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, 400, rec.Code)
	envelope := decodeError(t, rec.Body.Bytes())
	assert.Equal(t, string(pkgerrors.CodeValidation), envelope.Error.Code)
	assert.Equal(t, "hour must be between 0 and 23", envelope.Error.Message)
	assert.NotNil(t, envelope.Error.Details)
}

func TestWriteErrorInternalHidesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("dsn contains password"), "boom")
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, 500, rec.Code)
	envelope := decodeError(t, rec.Body.Bytes())
	assert.Equal(t, string(pkgerrors.CodeInternal), envelope.Error.Code)
	assert.NotContains(t, envelope.Error.Message, "password")
}

func TestWriteErrorUntypedBecomesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("plain"))

	assert.Equal(t, 500, rec.Code)
	envelope := decodeError(t, rec.Body.Bytes())
	assert.Equal(t, string(pkgerrors.CodeInternal), envelope.Error.Code)
}

func TestWriteErrorRemoteUnavailableMaps503(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeRemoteUnavailable, "linked server timed out")
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, 503, rec.Code)
	envelope := decodeError(t, rec.Body.Bytes())
	assert.Equal(t, "remote source unavailable", envelope.Error.Message)
}
