package trivia

import (
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/quizzlio/quizzlio-server/pkg/http/errors"
)

// NewCategoriesHandler serves the provider's category listing as a plain
// passthrough for game setup screens.
func NewCategoriesHandler(client *Client, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := client.Categories(r.Context())
		if err != nil {
			logger.Error().Err(err).Msg("fetch categories failed")
			httperrors.RespondBadGateway(w, "Failed to fetch categories")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	}
}
