package memory_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/parchmentlabs/lectern/pkg/logger"
	"github.com/parchmentlabs/lectern/pkg/vector"
	"github.com/parchmentlabs/lectern/pkg/vector/memory"
)

var _ = Describe("MemoryDriver", func() {
	var (
		driver *memory.MemoryDriver
		ctx    context.Context
	)

	BeforeEach(func() {
		driver = memory.NewMemoryDriver(logger.Nop())
		ctx = context.Background()
	})

	Describe("Add", func() {
		It("stores documents", func() {
			err := driver.Add(ctx, []vector.Document{
				{ID: "a#0", Text: "alpha", SourceRef: "a", Embedding: []float32{1, 0, 0}},
			})
			Expect(err).NotTo(HaveOccurred())

			count, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("replaces documents with the same ID", func() {
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "a#0", Text: "old", Embedding: []float32{1, 0, 0}},
			})).To(Succeed())
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "a#0", Text: "new", Embedding: []float32{0, 1, 0}},
			})).To(Succeed())

			docs, err := driver.Get(ctx, []string{"a#0"})
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(1))
			Expect(docs[0].Text).To(Equal("new"))
		})

		It("rejects mixed dimensionality", func() {
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "a#0", Embedding: []float32{1, 0, 0}},
			})).To(Succeed())

			err := driver.Add(ctx, []vector.Document{
				{ID: "a#1", Embedding: []float32{1, 0}},
			})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})

		It("rejects documents without an embedding", func() {
			err := driver.Add(ctx, []vector.Document{{ID: "a#0"}})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})
	})

	Describe("Query", func() {
		BeforeEach(func() {
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "doc-1", Text: "one", Embedding: []float32{1, 0, 0}},
				{ID: "doc-2", Text: "two", Embedding: []float32{0.9, 0.1, 0}},
				{ID: "doc-3", Text: "three", Embedding: []float32{0, 1, 0}},
				{ID: "doc-4", Text: "four", Embedding: []float32{0, 0, 1}},
			})).To(Succeed())
		})

		It("returns the closest documents in ascending distance order", func() {
			results, err := driver.Query(ctx, []float32{1, 0, 0}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].ID).To(Equal("doc-1"))
			Expect(results[0].Distance).To(BeNumerically("~", 0, 0.001))
			Expect(results[1].ID).To(Equal("doc-2"))

			for i := 1; i < len(results); i++ {
				Expect(results[i-1].Distance).To(BeNumerically("<=", results[i].Distance))
			}
		})

		It("returns all documents when fewer than topK exist", func() {
			results, err := driver.Query(ctx, []float32{1, 0, 0}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(4))
		})

		It("rejects query embeddings with the wrong dimensionality", func() {
			_, err := driver.Query(ctx, []float32{1, 0}, 3)
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})

		It("returns nothing against an empty store", func() {
			empty := memory.NewMemoryDriver(logger.Nop())
			results, err := empty.Query(ctx, []float32{1, 0, 0}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})
	})

	Describe("Get", func() {
		It("skips unknown IDs", func() {
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "a#0", Embedding: []float32{1, 0, 0}},
			})).To(Succeed())

			docs, err := driver.Get(ctx, []string{"a#0", "missing"})
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(1))
			Expect(docs[0].ID).To(Equal("a#0"))
		})
	})

	Describe("Delete", func() {
		It("removes documents", func() {
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "a#0", Embedding: []float32{1, 0, 0}},
				{ID: "a#1", Embedding: []float32{0, 1, 0}},
			})).To(Succeed())

			Expect(driver.Delete(ctx, []string{"a#0"})).To(Succeed())

			count, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("tolerates unknown IDs", func() {
			Expect(driver.Delete(ctx, []string{"missing"})).To(Succeed())
		})
	})
})
