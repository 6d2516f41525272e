package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/pkg/utils"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	return c, w
}

func TestSuccess(t *testing.T) {
	c, w := newTestContext()

	Success(c, http.StatusOK, gin.H{"ok": true})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestPaginated(t *testing.T) {
	c, w := newTestContext()

	Paginated(c, []string{"a"}, utils.CalculateMeta(1, 1, 20))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":["a"]`)
	assert.Contains(t, w.Body.String(), `"totalCount":1`)
}

func TestError_AppError(t *testing.T) {
	c, w := newTestContext()

	Error(c, domainerrors.NotFound("missing"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), domainerrors.CodeNotFound)
	assert.Contains(t, w.Body.String(), "missing")
}

func TestError_DomainErrorKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domainerrors.ErrInvalidPhone, http.StatusBadRequest, domainerrors.CodeInvalidPhone},
		{domainerrors.ErrInvalidCredentials, http.StatusUnauthorized, domainerrors.CodeInvalidCredentials},
		{domainerrors.ErrAccountDisabled, http.StatusForbidden, domainerrors.CodeAccountDisabled},
		{domainerrors.ErrRateLimited, http.StatusTooManyRequests, domainerrors.CodeRateLimited},
		{domainerrors.ErrInvalidState, http.StatusConflict, domainerrors.CodeInvalidState},
		{fmt.Errorf("%w: timeout", domainerrors.ErrUpstreamUnavailable), http.StatusBadGateway, domainerrors.CodeUpstreamUnavailable},
	}
	for _, tc := range cases {
		c, w := newTestContext()
		Error(c, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.code)
		assert.Contains(t, w.Body.String(), tc.code)
	}
}

func TestError_GenericError(t *testing.T) {
	c, w := newTestContext()

	Error(c, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), domainerrors.CodeInternal)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestAbort(t *testing.T) {
	c, w := newTestContext()

	Abort(c, domainerrors.ErrForbidden)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestErrorWithError(t *testing.T) {
	c, w := newTestContext()

	ErrorWithError(c, http.StatusBadRequest, "ERR_X", "bad")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"ERR_X"`)
}
