package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"go-vidtube/internal/util"
	"go-vidtube/pkg/apierror"
)

// Uploads stages multipart file parts on local disk before they are handed to
// the media uploader. The caller owns the staged files and must call remove.
type Uploads struct {
	tempDir string
	maxSize int64
}

// maxFieldSize caps a single multipart text field.
const maxFieldSize = 64 << 10

func NewUploads(tempDir string, maxSize int64) *Uploads {
	return &Uploads{tempDir: tempDir, maxSize: maxSize}
}

type multipartForm struct {
	fields formFields
	files  map[string]string
}

func (f *multipartForm) file(field string) string {
	return f.files[field]
}

func (f *multipartForm) remove() {
	for _, path := range f.files {
		_ = os.Remove(path)
	}
}

// read streams the multipart body, keeping text fields in memory and writing
// file parts listed in fileFields to the temp dir. Other file parts are skipped.
// On error every file staged so far has already been removed.
func (u *Uploads) read(w http.ResponseWriter, r *http.Request, fileFields ...string) (*multipartForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, u.maxSize)
	defer r.Body.Close()

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, apierror.BadRequest("invalid multipart body", "")
	}

	if err := os.MkdirAll(u.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload temp dir: %w", err)
	}

	form := &multipartForm{fields: formFields{}, files: map[string]string{}}
	for {
		part, nextErr := reader.NextPart()
		if nextErr == io.EOF {
			break
		}
		if nextErr != nil {
			form.remove()
			if isPayloadTooLarge(nextErr) {
				return nil, payloadTooLarge()
			}
			return nil, apierror.BadRequest("invalid multipart stream", nextErr.Error())
		}

		name := part.FormName()
		if part.FileName() == "" {
			value, readErr := io.ReadAll(io.LimitReader(part, maxFieldSize+1))
			_ = part.Close()
			if readErr != nil {
				form.remove()
				if isPayloadTooLarge(readErr) {
					return nil, payloadTooLarge()
				}
				return nil, apierror.BadRequest("invalid multipart stream", readErr.Error())
			}
			if len(value) > maxFieldSize {
				form.remove()
				return nil, apierror.BadRequest("form field is too long", name)
			}
			form.fields[name] = string(value)
			continue
		}

		if !slices.Contains(fileFields, name) || form.files[name] != "" {
			_ = part.Close()
			continue
		}

		path, stageErr := u.stage(part)
		_ = part.Close()
		if stageErr != nil {
			form.remove()
			return nil, stageErr
		}
		form.files[name] = path
	}

	return form, nil
}

func (u *Uploads) stage(part *multipart.Part) (string, error) {
	name := part.FileName()
	clean, err := util.SanitizeFilename(name)
	if err != nil {
		return "", err
	}

	path := filepath.Join(u.tempDir, uuid.NewString()+strings.ToLower(filepath.Ext(clean)))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(file, part); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		if isPayloadTooLarge(err) {
			return "", payloadTooLarge()
		}
		return "", apierror.BadRequest("failed to read uploaded file", name)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return path, nil
}

func isPayloadTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "request body too large")
}

func payloadTooLarge() error {
	return apierror.New("PAYLOAD_TOO_LARGE", "request body exceeds MAX_UPLOAD_SIZE", "MAX_UPLOAD_SIZE", http.StatusRequestEntityTooLarge)
}

// readAny accepts either a multipart body (with optional files) or a plain
// JSON / url-encoded body, for routes where the file part is optional.
func (u *Uploads) readAny(w http.ResponseWriter, r *http.Request, fileFields ...string) (*multipartForm, error) {
	if strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/") {
		return u.read(w, r, fileFields...)
	}

	fields, err := readFields(r)
	if err != nil {
		return nil, err
	}
	return &multipartForm{fields: fields, files: map[string]string{}}, nil
}
