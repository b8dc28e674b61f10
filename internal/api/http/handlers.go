package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/linkboard/pkg/response"
)

// titleCacheControl marks successful title lookups as cacheable by fronting caches for a day.
const titleCacheControl = "public, max-age=86400"

// handlePing handles health check requests to ensure the server is running.
func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

// metadataRequest represents the query of a title lookup.
type metadataRequest struct {
	URL string `json:"url" validate:"required"`
}

// metadataResponse represents the response payload of a successful title lookup.
type metadataResponse struct {
	Title string `json:"title"`
}

// handleGetMetadata handles GET requests resolving the title of the page in the url query parameter.
//
// The url is not validated beyond being present; an unfetchable address surfaces as a server error.
func handleGetMetadata(svc MetadataService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleGetMetadata"

	return func(w http.ResponseWriter, r *http.Request) {
		req := metadataRequest{
			URL: r.URL.Query().Get("url"),
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.InvalidURLResponse)
			return
		}

		title, err := svc.ResolveTitle(r.Context(), req.URL)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.FetchTitleFailedResponse)
			return
		}

		w.Header().Set("Cache-Control", titleCacheControl)

		render.Status(r, http.StatusOK)
		render.JSON(w, r, metadataResponse{Title: title})
	}
}
