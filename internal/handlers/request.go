package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clipstream/backend/internal/views"
)

// maxJSONBody bounds JSON request payloads; media uploads are bounded
// separately by the multipart budget.
const maxJSONBody = 100 << 10

var validate = validator.New()

// decodeJSON parses and validates a request body into dst. Validation rules
// come from the struct's validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return badRequest("invalid request body")
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return badRequest("invalid field: " + strings.ToLower(fieldErrs[0].Field()))
		}
		return badRequest("invalid request body")
	}

	return nil
}

// pathID extracts and parses an ObjectID path parameter.
func pathID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(r.PathValue(name))
	if err != nil {
		return primitive.NilObjectID, badRequest("invalid " + name)
	}
	return id, nil
}

// pageFromQuery reads page and limit query parameters, applying defaults
// when they are absent.
func pageFromQuery(r *http.Request) (views.PageRequest, error) {
	q := r.URL.Query()
	req, err := views.ParsePageParams(q.Get("page"), q.Get("limit"))
	if err != nil {
		return views.PageRequest{}, badRequest("page and limit must be positive integers")
	}
	return req, nil
}

// formFile pulls one uploaded file out of a parsed multipart form. A missing
// required file is a client error; a missing optional file returns nil.
func formFile(r *http.Request, field string, required bool) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if required {
			return nil, nil, badRequest(field + " file is required")
		}
		return nil, nil, nil
	}
	return file, header, nil
}

// blobKey builds a collision-free object key for an upload, keeping the
// original file extension so content type sniffing stays sane downstream.
func blobKey(folder, filename string) string {
	return folder + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}
