package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/PabloGalante/applyai-api/internal/adapters/document"
	"github.com/PabloGalante/applyai-api/internal/domain"
)

const (
	maxJSONBytes   = 1 << 20
	maxUploadBytes = 10 << 20

	opDecode = "http.decodeRequest"
)

type tailorRequest struct {
	BaseResume     string `json:"base_resume"`
	JobDescription string `json:"job_description"`
	UserID         string `json:"user_id"`
	UserIDAlt      string `json:"userId"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ValidationError(opDecode, "body", "must be a valid JSON object")
	}
	return nil
}

// parseTailorRequest reads the tailoring fields from a JSON, urlencoded or
// multipart body. An uploaded base_resume_file stands in for a blank
// base_resume.
func parseTailorRequest(w http.ResponseWriter, r *http.Request) (tailorRequest, error) {
	var req tailorRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := decodeJSON(w, r, &req); err != nil {
			return req, err
		}

	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return req, domain.ValidationError(opDecode, "body", "must be a valid multipart form")
		}
		readFormFields(r, &req)

		if strings.TrimSpace(req.BaseResume) == "" {
			text, err := readResumeFile(r)
			if err != nil {
				return req, err
			}
			req.BaseResume = text
		}

	case "application/x-www-form-urlencoded", "":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
		if err := r.ParseForm(); err != nil {
			return req, domain.ValidationError(opDecode, "body", "must be a valid form")
		}
		readFormFields(r, &req)

	default:
		return req, domain.ValidationError(opDecode, "body", fmt.Sprintf("unsupported content type %q", mediaType))
	}

	req.UserID = firstNonEmpty(req.UserID, req.UserIDAlt)
	return req, nil
}

func readFormFields(r *http.Request, req *tailorRequest) {
	req.BaseResume = r.PostFormValue("base_resume")
	req.JobDescription = r.PostFormValue("job_description")
	req.UserID = r.PostFormValue("user_id")
	req.UserIDAlt = r.PostFormValue("userId")
}

// readResumeFile returns the text of base_resume_file, or "" when no file
// was sent.
func readResumeFile(r *http.Request) (string, error) {
	const field = "base_resume_file"

	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", domain.ValidationError(opDecode, field, "could not be read")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", domain.ValidationError(opDecode, field, "could not be read")
	}

	mimeType := document.DetectType(header.Filename, header.Header.Get("Content-Type"), data)
	text, err := document.ExtractText(mimeType, data)
	if errors.Is(err, document.ErrUnsupportedType) {
		return "", domain.ValidationError(opDecode, field, "must be a PDF, DOCX or plain text file")
	}
	if err != nil {
		return "", domain.ValidationError(opDecode, field, "could not be parsed")
	}
	return text, nil
}
