package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindUnavailable, http.StatusServiceUnavailable},
		{KindUpstreamEmpty, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
		{KindNotFound, http.StatusNotFound},
		{Kind(99), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.Status())
		})
	}
}

func TestInternalMessage(t *testing.T) {
	assert.Equal(t, "Erro ao processar a solicitação: boom", Internal(errors.New("boom")).Message)
	assert.Equal(t, MsgUnknown, Internal(nil).Message)
	assert.Equal(t, MsgUnknown, Internal(errors.New("")).Message)
}

func TestFromKeepsWrappedAPIError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", RateLimited())

	e := From(wrapped)
	assert.Equal(t, KindRateLimited, e.Kind)

	plain := From(errors.New("falhou"))
	assert.Equal(t, KindInternal, plain.Kind)
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("503 from upstream")
	e := Unavailable(cause)

	assert.ErrorIs(t, e, cause)
	assert.Contains(t, e.Error(), MsgOverloaded)
}

func TestWrite(t *testing.T) {
	w := httptest.NewRecorder()
	Write(w, Validation(MsgQuestionRequired))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var body Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, Body{
		StatusCode: http.StatusBadRequest,
		Message:    MsgQuestionRequired,
		Error:      "Bad Request",
	}, body)
}

func TestNotFoundMessage(t *testing.T) {
	e := NotFound(http.MethodGet, "/study")
	assert.Equal(t, "Cannot GET /study", e.Message)
	assert.Equal(t, http.StatusNotFound, e.Status())
}
