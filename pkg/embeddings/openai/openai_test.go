package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/parchmentlabs/lectern/pkg/embeddings"
	"github.com/parchmentlabs/lectern/pkg/embeddings/openai"
)

var _ = Describe("OpenAI Embedder", func() {
	Describe("NewEmbedder", func() {
		It("requires an API key", func() {
			_, err := openai.NewEmbedder(openai.EmbedderConfig{})
			Expect(err).To(HaveOccurred())
		})

		It("constructs with an API key", func() {
			e, err := openai.NewEmbedder(openai.EmbedderConfig{APIKey: "sk-test"})
			Expect(err).NotTo(HaveOccurred())
			Expect(e).NotTo(BeNil())
		})
	})

	Describe("Embed", func() {
		var server *httptest.Server

		AfterEach(func() {
			if server != nil {
				server.Close()
				server = nil
			}
		})

		Context("against a compatible endpoint", func() {
			BeforeEach(func() {
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					_ = json.NewEncoder(w).Encode(map[string]any{
						"object": "list",
						"data": []map[string]any{
							{
								"object":    "embedding",
								"index":     0,
								"embedding": []float64{0.5, 0.25},
							},
						},
						"model": "text-embedding-3-small",
					})
				}))
			})

			It("returns the embedding as float32", func() {
				e, err := openai.NewEmbedder(openai.EmbedderConfig{
					APIKey:  "sk-test",
					BaseURL: server.URL,
				})
				Expect(err).NotTo(HaveOccurred())

				vec, err := e.Embed(context.Background(), "hello")
				Expect(err).NotTo(HaveOccurred())
				Expect(vec).To(Equal([]float32{0.5, 0.25}))
			})
		})

		Context("when the endpoint rejects the request", func() {
			BeforeEach(func() {
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, `{"error": {"message": "invalid api key"}}`, http.StatusUnauthorized)
				}))
			})

			It("wraps the failure in ErrUnavailable", func() {
				e, err := openai.NewEmbedder(openai.EmbedderConfig{
					APIKey:  "sk-bad",
					BaseURL: server.URL,
				})
				Expect(err).NotTo(HaveOccurred())

				_, err = e.Embed(context.Background(), "hello")
				Expect(err).To(MatchError(embeddings.ErrUnavailable))
			})
		})
	})
})
