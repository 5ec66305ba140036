package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/parchmentlabs/lectern/pkg/embeddings"
	"github.com/parchmentlabs/lectern/pkg/embeddings/ollama"
)

var _ = Describe("Ollama Embedder", func() {
	var (
		server *httptest.Server
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
			server = nil
		}
	})

	Describe("NewEmbedder", func() {
		It("applies defaults when config is empty", func() {
			e, err := ollama.NewEmbedder(ollama.EmbedderConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(e).NotTo(BeNil())
		})
	})

	Describe("Embed", func() {
		Context("when the server responds with an embedding", func() {
			BeforeEach(func() {
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					Expect(r.Method).To(Equal(http.MethodPost))
					Expect(r.URL.Path).To(Equal("/api/embed"))

					var body map[string]any
					Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
					Expect(body["model"]).To(Equal("nomic-embed-text"))
					Expect(body["input"]).To(Equal("hello world"))

					w.Header().Set("Content-Type", "application/json")
					_ = json.NewEncoder(w).Encode(map[string]any{
						"embeddings": [][]float32{{0.1, 0.2, 0.3}},
					})
				}))
			})

			It("returns the embedding vector", func() {
				e, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
				Expect(err).NotTo(HaveOccurred())

				vec, err := e.Embed(ctx, "hello world")
				Expect(err).NotTo(HaveOccurred())
				Expect(vec).To(HaveLen(3))
				Expect(vec[0]).To(BeNumerically("~", 0.1, 0.001))
			})
		})

		Context("when the server returns an error status", func() {
			BeforeEach(func() {
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, "model not found", http.StatusNotFound)
				}))
			})

			It("wraps the failure in ErrUnavailable", func() {
				e, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
				Expect(err).NotTo(HaveOccurred())

				_, err = e.Embed(ctx, "hello")
				Expect(err).To(MatchError(embeddings.ErrUnavailable))
			})
		})

		Context("when the server returns no embeddings", func() {
			BeforeEach(func() {
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					_ = json.NewEncoder(w).Encode(map[string]any{
						"embeddings": [][]float32{},
					})
				}))
			})

			It("wraps the failure in ErrUnavailable", func() {
				e, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
				Expect(err).NotTo(HaveOccurred())

				_, err = e.Embed(ctx, "hello")
				Expect(err).To(MatchError(embeddings.ErrUnavailable))
			})
		})

		Context("when the server is unreachable", func() {
			It("wraps the failure in ErrUnavailable", func() {
				e, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: "http://127.0.0.1:1"})
				Expect(err).NotTo(HaveOccurred())

				_, err = e.Embed(ctx, "hello")
				Expect(err).To(MatchError(embeddings.ErrUnavailable))
			})
		})
	})
})
