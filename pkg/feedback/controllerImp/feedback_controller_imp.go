package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"feedbackgen/entities"
	"feedbackgen/pkg/errdefs"
	"feedbackgen/pkg/feedback/service"
	"feedbackgen/pkg/textfile"
)

type FeedbackCtrl struct{ svc service.FeedbackService }

func New(svc service.FeedbackService) *FeedbackCtrl { return &FeedbackCtrl{svc} }

// Submit accepts the form as JSON, or as multipart with the activity in a "file" part.
func (h *FeedbackCtrl) Submit(c echo.Context) error {
	var in service.FormInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
	}

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if fh, err := c.FormFile("file"); err == nil {
			content, err := textfile.Read(fh)
			if err != nil {
				return fail(c, err)
			}
			in.Source = service.SourceFile
			in.ActivityContent = content
		}
	}
	if in.Source == "" {
		in.Source = service.SourceText
	}

	rec, err := h.svc.Submit(c.Request().Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *FeedbackCtrl) Current(c echo.Context) error {
	rec, ok := h.svc.Current()
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *FeedbackCtrl) Draft(c echo.Context) error {
	in, ok := h.svc.Draft()
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, in)
}

func (h *FeedbackCtrl) SaveEdit(c echo.Context) error {
	var content entities.FeedbackContent
	if err := c.Bind(&content); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	rec, err := h.svc.SaveEdit(c.Param("id"), content)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func fail(c echo.Context, err error) error {
	return c.JSON(errdefs.HTTPStatus(err), map[string]string{"error": errdefs.Message(err)})
}
