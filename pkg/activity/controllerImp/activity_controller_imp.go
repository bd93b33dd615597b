package controllerImp

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"feedbackgen/pkg/activity/service"
	"feedbackgen/pkg/errdefs"
	"feedbackgen/pkg/textfile"
)

type ActivityCtrl struct{ catalog service.Catalog }

func New(catalog service.Catalog) *ActivityCtrl { return &ActivityCtrl{catalog} }

type createReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

var errMissingFields = fmt.Errorf("%w: Informe o título e o enunciado da atividade.", errdefs.ErrValidation)

func (h *ActivityCtrl) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.List())
}

func (h *ActivityCtrl) Create(c echo.Context) error {
	var req createReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	return h.store(c, req.Title, req.Content)
}

// Upload takes the title from a form field and the prompt text from a plain-text file.
func (h *ActivityCtrl) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, errMissingFields)
	}
	content, err := textfile.Read(fh)
	if err != nil {
		return fail(c, err)
	}
	return h.store(c, c.FormValue("title"), content)
}

func (h *ActivityCtrl) store(c echo.Context, title, content string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return fail(c, errMissingFields)
	}
	a, added, err := h.catalog.Create(title, content)
	if err != nil {
		c.Logger().Errorf("create activity: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !added {
		return c.JSON(http.StatusOK, a)
	}
	return c.JSON(http.StatusCreated, a)
}

func fail(c echo.Context, err error) error {
	return c.JSON(errdefs.HTTPStatus(err), map[string]string{"error": errdefs.Message(err)})
}
