package errdefs

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrValidation            = errors.New("validation error")
	ErrUnsupportedFileFormat = errors.New("unsupported file format")
	ErrService               = errors.New("generation service error")
	ErrMalformedResponse     = errors.New("malformed response")
	ErrSchemaViolation       = errors.New("schema violation")
	ErrMissingCredential     = errors.New("missing API credential")
	ErrBusy                  = errors.New("a feedback generation is already in progress")
	ErrNotFound              = errors.New("not found")
)

// ResponseError describes a generation reply that could not be used.
// Kind is ErrMalformedResponse or ErrSchemaViolation; Raw keeps the reply for diagnostics.
type ResponseError struct {
	Kind   error
	Reason string
	Raw    string
}

func (e *ResponseError) Error() string {
	msg := e.Kind.Error()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg + ": " + e.Raw
}

func (e *ResponseError) Unwrap() error { return e.Kind }

// Message renders err as the single human-readable line shown to the user.
// Validation errors carry their own user-facing text after the sentinel prefix.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnsupportedFileFormat):
		return detail(err)
	case errors.Is(err, ErrMissingCredential):
		// the wrapped detail names the variable the provider reads
		name := "API_KEY"
		if d := detail(err); d != err.Error() {
			name = d
		}
		return "A chave de API não está configurada. Defina " + name + " no ambiente e reinicie o servidor."
	case errors.Is(err, ErrBusy):
		return "Já existe uma geração de feedback em andamento. Aguarde a conclusão."
	case errors.Is(err, ErrMalformedResponse), errors.Is(err, ErrSchemaViolation), errors.Is(err, ErrService):
		return "Falha ao gerar feedback: " + err.Error() + ". Verifique a sua chave API e tente novamente."
	case errors.Is(err, ErrNotFound):
		return "Registro não encontrado."
	default:
		return "Ocorreu um erro ao gerar o feedback. Tente novamente."
	}
}

// HTTPStatus maps err to the status code the API answers with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnsupportedFileFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrMalformedResponse), errors.Is(err, ErrSchemaViolation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrService):
		return http.StatusBadGateway
	case errors.Is(err, ErrMissingCredential):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrBusy):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func detail(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
