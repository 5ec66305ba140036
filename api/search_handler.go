package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/parchmentlabs/lectern/pkg/embeddings"
	"github.com/parchmentlabs/lectern/pkg/vector"
)

// handleSearchEndpoint handles GET /v1/search requests.
// Query parameters:
//   - query (required): the search query text
//   - top_k (optional, default 5): number of results to return
func (s *Server) handleSearchEndpoint(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query parameter is required",
		})
	}

	topK := 5
	if topKStr := c.Query("top_k"); topKStr != "" {
		parsed, err := strconv.Atoi(topKStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "top_k must be a positive integer",
			})
		}
		topK = parsed
	}

	result, err := s.retriever.Retrieve(c.Context(), query, topK)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, vector.ErrNotLoaded):
			status = fiber.StatusServiceUnavailable
		case errors.Is(err, embeddings.ErrUnavailable):
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(result)
}
