package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticave/storefront/internal/interfaces/http/dto"
)

func newValidationRouter() *gin.Engine {
	SetupValidator()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Locale())
	router.POST("/api/cart/create", func(c *gin.Context) {
		var req dto.CreateCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return router
}

func postCreateCart(router *gin.Engine, body, lang string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/cart/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError_FieldDetails(t *testing.T) {
	router := newValidationRouter()

	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{"missing lines", `{}`, []string{"lines"}},
		{"empty lines", `{"lines":[]}`, []string{"lines"}},
		{"zero quantity", `{"lines":[{"merchandiseId":"v-m","quantity":0}]}`, []string{"lines[0].quantity"}},
		{"missing merchandise", `{"lines":[{"quantity":1}]}`, []string{"lines[0].merchandiseId"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postCreateCart(router, tt.body, "")
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.False(t, resp.Success)
			assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
			assert.Equal(t, "Invalid request body", resp.Error.Message)
			assert.NotEmpty(t, resp.Error.RequestID)

			fields := make([]string, 0, len(resp.Error.Details))
			for _, d := range resp.Error.Details {
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	router := newValidationRouter()

	w := postCreateCart(router, `{"lines":`, "en")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestHandleValidationError_ValidBodyPasses(t *testing.T) {
	router := newValidationRouter()

	w := postCreateCart(router, `{"lines":[{"merchandiseId":"v-m","quantity":2}]}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetValidationMessage(t *testing.T) {
	type sample struct {
		Required string   `validate:"required"`
		MinSlice []string `validate:"min=1"`
		MinStr   string   `validate:"min=5"`
		MinInt   int      `validate:"min=1"`
		Max      string   `validate:"max=3"`
		GTE      int      `validate:"gte=0"`
		OneOf    string   `validate:"oneof=a b"`
	}

	err := validator.New().Struct(sample{
		MinSlice: []string{},
		MinStr:   "ab",
		Max:      "toolong",
		GTE:      -1,
		OneOf:    "c",
	})
	require.Error(t, err)

	got := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		got[e.Field()] = getValidationMessage(e)
	}

	assert.Equal(t, "This field is required", got["Required"])
	assert.Equal(t, "Must contain at least 1 item(s)", got["MinSlice"])
	assert.Equal(t, "Must be at least 5 characters", got["MinStr"])
	assert.Equal(t, "Must be at least 1", got["MinInt"])
	assert.Equal(t, "Must be at most 3 characters", got["Max"])
	assert.Equal(t, "Must be greater than or equal to 0", got["GTE"])
	assert.Equal(t, "Must be one of: a b", got["OneOf"])
}
