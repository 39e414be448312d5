package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
)

const userIDHeader = "X-User-ID"

// GetUserIDFromRequest extracts the acting user from the X-User-ID header.
// Authentication happens upstream; the header is trusted as is.
func GetUserIDFromRequest(r *http.Request) (int32, error) {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		return 0, &requestError{status: http.StatusUnauthorized, msg: "user id is not provided"}
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, &requestError{status: http.StatusBadRequest, msg: "invalid user id format"}
	}
	return int32(id), nil
}

func rentalIDFromPath(r *http.Request) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["rentalID"], 10, 32)
	if err != nil || id <= 0 {
		return 0, &domain.InvalidRentalError{Reason: "invalid rental id"}
	}
	return int32(id), nil
}

func queryInt32(r *http.Request, name string, def int32) int32 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 32)
	if err != nil {
		return def
	}
	return int32(v)
}
