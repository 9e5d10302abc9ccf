package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func tokenURLParam(r *http.Request) string {
	return chi.URLParam(r, "token")
}

func idURLParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// pageParams reads ?page= and ?page_size=, leaving zero values for the
// service to normalize.
func pageParams(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	return page, pageSize
}
