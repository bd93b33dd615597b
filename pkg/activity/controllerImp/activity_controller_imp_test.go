package controllerImp

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedbackgen/entities"
	"feedbackgen/pkg/activity/repositoryImp"
	"feedbackgen/pkg/activity/serviceImp"
	kvImp "feedbackgen/pkg/storage/repositoryImp"
)

func newCtrl(t *testing.T) *ActivityCtrl {
	t.Helper()
	catalog, err := serviceImp.New(repositoryImp.New(kvImp.NewMemory()))
	require.NoError(t, err)
	return New(catalog)
}

func postJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(echo.New().NewContext(req, rec)))
	return rec
}

func TestCreate_ThenDuplicate(t *testing.T) {
	h := newCtrl(t)

	rec := postJSON(t, h.Create, `{"title":"Prova 1","content":"Resolva"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	var first entities.ActivityPrompt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.NotEmpty(t, first.ID)

	rec = postJSON(t, h.Create, `{"title":"Prova 1","content":"Resolva"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	var second entities.ActivityPrompt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.ID, second.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/activities", nil)
	list := httptest.NewRecorder()
	require.NoError(t, h.List(echo.New().NewContext(req, list)))
	var all []entities.ActivityPrompt
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &all))
	assert.Len(t, all, 1)
}

func TestCreate_KeepsTextAsEntered(t *testing.T) {
	h := newCtrl(t)

	assert.Equal(t, http.StatusCreated, postJSON(t, h.Create, `{"title":"Prova 1","content":"Resolva"}`).Code)
	rec := postJSON(t, h.Create, `{"title":"Prova 1 ","content":"Resolva"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var a entities.ActivityPrompt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, "Prova 1 ", a.Title)
	assert.Equal(t, 2, h.catalog.Len())
}

func TestCreate_MissingFields(t *testing.T) {
	rec := postJSON(t, newCtrl(t).Create, `{"title":"  ","content":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Informe o título")
}

func upload(t *testing.T, h *ActivityCtrl, filename, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Lista 2"))
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, _ = part.Write([]byte(body))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/activities/upload", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	require.NoError(t, h.Upload(echo.New().NewContext(req, rec)))
	return rec
}

func TestUpload_PlainText(t *testing.T) {
	rec := upload(t, newCtrl(t), "lista.txt", "text/plain", "Implemente uma pilha.\n")
	assert.Equal(t, http.StatusCreated, rec.Code)

	var a entities.ActivityPrompt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, "Lista 2", a.Title)
	assert.Equal(t, "Implemente uma pilha.\n", a.Content)
}

func TestUpload_PDFRejected(t *testing.T) {
	h := newCtrl(t)
	rec := upload(t, h, "lista.pdf", "application/pdf", "%PDF-1.4")
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, 0, h.catalog.Len())
}
