package textfile

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"feedbackgen/pkg/errdefs"
)

// MaxBytes bounds how much of a prompt file is read.
const MaxBytes = 1 << 20

const (
	msgOfficeFormat = "A leitura de arquivos PDF/DOCX não é suportada diretamente neste aplicativo. Por favor, cole o texto manualmente ou use um arquivo .txt."
	msgUnsupported  = "Formato de arquivo não suportado. Por favor, use um arquivo .txt ou cole o texto diretamente."
	msgTooLarge     = "O arquivo excede o tamanho máximo de 1 MB."
	msgUnreadable   = "Não foi possível ler o arquivo %s."
)

var officeTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/msword": true,
}

// Read returns the text of an uploaded plain-text file.
func Read(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", unreadable(fh.Filename)
	}
	defer f.Close()
	return readFrom(f, fh.Filename, fh.Header.Get("Content-Type"))
}

// ReadFile returns the text of a plain-text file on disk.
func ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", unreadable(filepath.Base(path))
	}
	defer f.Close()
	return readFrom(f, filepath.Base(path), mime.TypeByExtension(filepath.Ext(path)))
}

func readFrom(r io.Reader, name, declared string) (string, error) {
	mt, _, _ := mime.ParseMediaType(declared)
	mt = strings.ToLower(mt)
	if officeTypes[mt] || isOfficeExt(name) {
		return "", fmt.Errorf("%w: %s", errdefs.ErrUnsupportedFileFormat, msgOfficeFormat)
	}

	b, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return "", unreadable(name)
	}
	if len(b) > MaxBytes {
		return "", fmt.Errorf("%w: %s", errdefs.ErrUnsupportedFileFormat, msgTooLarge)
	}

	switch {
	case mt == "text/plain":
	case (mt == "" || mt == "application/octet-stream") && strings.EqualFold(filepath.Ext(name), ".txt") && sniffText(b):
	default:
		return "", fmt.Errorf("%w: %s", errdefs.ErrUnsupportedFileFormat, msgUnsupported)
	}
	return string(b), nil
}

// unreadable is a validation error so the user sees which file failed.
func unreadable(name string) error {
	return fmt.Errorf("%w: "+msgUnreadable, errdefs.ErrValidation, name)
}

func sniffText(b []byte) bool {
	return strings.HasPrefix(http.DetectContentType(b), "text/plain")
}

func isOfficeExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".docx", ".doc":
		return true
	}
	return false
}
