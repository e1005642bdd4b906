package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/museum-backend/internal/i18n"
	"github.com/javajoker/museum-backend/internal/models"
	"github.com/javajoker/museum-backend/internal/services"
)

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestOptionalQueriesIgnoreMalformedValues(t *testing.T) {
	c, _ := testContext("/?category=abc&is_featured=maybe&status=lost")
	assert.Nil(t, optionalUintQuery(c, "category"))
	assert.Nil(t, optionalBoolQuery(c, "is_featured"))
	assert.Nil(t, statusQuery(c))

	c, _ = testContext("/?category=0")
	assert.Nil(t, optionalUintQuery(c, "category"))

	c, _ = testContext("/?category=4&is_featured=true&status=repair")
	if category := optionalUintQuery(c, "category"); assert.NotNil(t, category) {
		assert.Equal(t, uint(4), *category)
	}
	if featured := optionalBoolQuery(c, "is_featured"); assert.NotNil(t, featured) {
		assert.True(t, *featured)
	}
	if status := statusQuery(c); assert.NotNil(t, status) {
		assert.Equal(t, models.ExhibitStatusRepair, *status)
	}
}

func TestParseID(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-1"} {
		c, w := testContext("/")
		c.Params = gin.Params{{Key: "id", Value: raw}}

		_, ok := parseID(c, "id")
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
	}

	c, _ := testContext("/")
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(12)}}
	id, ok := parseID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint(12), id)
}

func TestPresenceFlag(t *testing.T) {
	for _, raw := range []string{"on", "yes", "1", "true", "false"} {
		c, _ := testContext("/?is_featured=" + raw)
		assert.True(t, presenceFlag(c, "is_featured"), raw)
	}

	c, _ := testContext("/")
	assert.False(t, presenceFlag(c, "is_featured"))

	c, _ = testContext("/?is_featured=")
	assert.False(t, presenceFlag(c, "is_featured"))
}

func TestFormCheckbox(t *testing.T) {
	tests := map[string]bool{
		"on":    true,
		"true":  true,
		"1":     true,
		"yes":   true,
		"":      false,
		"off":   false,
		"false": false,
		"0":     false,
	}
	for raw, want := range tests {
		c, _ := testContext("/")
		form := url.Values{}
		if raw != "" {
			form.Set("is_primary", raw)
		}
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		assert.Equal(t, want, formCheckbox(c, "is_primary"), "is_primary=%q", raw)
	}
}

func TestRespondErrorNotFoundIsTranslated(t *testing.T) {
	require.NoError(t, i18n.Initialize())

	c, w := testContext("/")
	c.Set("lang", "ru")
	respondError(c, fmt.Errorf("category: %w", services.ErrNotFound), i18n.KeyCategoryNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`)
	assert.Contains(t, w.Body.String(), i18n.T("ru", i18n.KeyCategoryNotFound))
}
