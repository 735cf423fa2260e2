package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// validate is shared; validator caches struct metadata per type
var validate = validator.New(validator.WithRequiredStructEnabled())

var errInvalidID = errors.New("invalid id")

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// decodeJSON reads a JSON body (max 1 MiB) into dst and validates it
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// pathID parses a positive integer path variable
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// maxQueryPage keeps page*size inside an int32 offset for any page size up to 1000
const maxQueryPage = math.MaxInt32 / 1000

// queryPage parses ?page=; anything invalid is page 0, huge pages are clamped
func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		return 0
	}
	return min(page, maxQueryPage)
}
