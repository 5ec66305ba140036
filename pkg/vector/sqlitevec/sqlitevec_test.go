package sqlitevec_test

import (
	"context"
	"log/slog"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/parchmentlabs/lectern/pkg/logger"
	"github.com/parchmentlabs/lectern/pkg/vector"
	"github.com/parchmentlabs/lectern/pkg/vector/sqlitevec"
)

var _ = Describe("SQLiteVecDriver", func() {
	var log *slog.Logger

	BeforeEach(func() {
		log = logger.Nop()
	})

	Describe("NewSQLiteVecDriver", func() {
		It("should return an error when DBPath is empty", func() {
			_, err := sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{DBPath: ""}, log)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("database path is required"))
		})

		It("should create a driver with an in-memory database", func() {
			driver, err := sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
				DBPath:     ":memory:",
				Dimensions: 4,
			}, log)
			Expect(err).NotTo(HaveOccurred())
			Expect(driver).NotTo(BeNil())
			Expect(driver.Close()).To(Succeed())
		})

		It("should error when dimension not specified", func() {
			_, err := sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
				DBPath: ":memory:",
			}, log)
			Expect(err).To(HaveOccurred())
		})

		It("should report ErrNotLoaded when requiring a missing database file", func() {
			missing := filepath.Join(GinkgoT().TempDir(), "index.db")
			_, err := sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
				DBPath:          missing,
				Dimensions:      4,
				RequireExisting: true,
			}, log)
			Expect(err).To(MatchError(vector.ErrNotLoaded))
		})
	})

	Describe("Interface compliance", func() {
		It("should implement vector.VectorDriver interface", func() {
			var _ vector.VectorDriver = (*sqlitevec.SQLiteVecDriver)(nil)
		})
	})

	Describe("Add", func() {
		var driver *sqlitevec.SQLiteVecDriver

		BeforeEach(func() {
			var err error
			driver, err = sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
				DBPath:     ":memory:",
				Dimensions: 4,
			}, log)
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			Expect(driver.Close()).To(Succeed())
		})

		It("should do nothing when given empty docs", func() {
			err := driver.Add(context.Background(), []vector.Document{})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should add a single document with its text and source", func() {
			docs := []vector.Document{
				{
					ID:        "guide.md#0",
					Text:      "Returns are accepted within 30 days.",
					SourceRef: "guide.md",
					Embedding: []float32{0.1, 0.2, 0.3, 0.4},
				},
			}

			err := driver.Add(context.Background(), docs)
			Expect(err).NotTo(HaveOccurred())

			retrieved, err := driver.Get(context.Background(), []string{"guide.md#0"})
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved).To(HaveLen(1))
			Expect(retrieved[0].ID).To(Equal("guide.md#0"))
			Expect(retrieved[0].Text).To(Equal("Returns are accepted within 30 days."))
			Expect(retrieved[0].SourceRef).To(Equal("guide.md"))
		})

		It("should add multiple documents", func() {
			docs := []vector.Document{
				{ID: "a#0", Text: "alpha", SourceRef: "a", Embedding: []float32{1, 0, 0, 0}},
				{ID: "a#1", Text: "beta", SourceRef: "a", Embedding: []float32{0, 1, 0, 0}},
				{ID: "b#0", Text: "gamma", SourceRef: "b", Embedding: []float32{0, 0, 1, 0}},
			}

			err := driver.Add(context.Background(), docs)
			Expect(err).NotTo(HaveOccurred())

			count, err := driver.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3))
		})

		It("should update an existing document", func() {
			docs := []vector.Document{
				{ID: "a#0", Text: "old text", SourceRef: "a", Embedding: []float32{1, 0, 0, 0}},
			}
			err := driver.Add(context.Background(), docs)
			Expect(err).NotTo(HaveOccurred())

			updatedDocs := []vector.Document{
				{ID: "a#0", Text: "new text", SourceRef: "a", Embedding: []float32{0, 1, 0, 0}},
			}
			err = driver.Add(context.Background(), updatedDocs)
			Expect(err).NotTo(HaveOccurred())

			retrieved, err := driver.Get(context.Background(), []string{"a#0"})
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved).To(HaveLen(1))
			Expect(retrieved[0].Text).To(Equal("new text"))

			count, err := driver.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("should reject embeddings with the wrong dimensionality", func() {
			docs := []vector.Document{
				{ID: "a#0", Embedding: []float32{1, 0}},
			}
			err := driver.Add(context.Background(), docs)
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})
	})

	Describe("Query", func() {
		var driver *sqlitevec.SQLiteVecDriver

		BeforeEach(func() {
			var err error
			driver, err = sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
				DBPath:     ":memory:",
				Dimensions: 4,
			}, log)
			Expect(err).NotTo(HaveOccurred())

			// Direction matters under cosine distance, magnitude does not.
			docs := []vector.Document{
				{ID: "doc-1", Text: "one", SourceRef: "s", Embedding: []float32{1, 0, 0, 0}},
				{ID: "doc-2", Text: "two", SourceRef: "s", Embedding: []float32{0.9, 0.1, 0, 0}},
				{ID: "doc-3", Text: "three", SourceRef: "s", Embedding: []float32{0, 1, 0, 0}},
				{ID: "doc-4", Text: "four", SourceRef: "s", Embedding: []float32{0, 0, 1, 0}},
				{ID: "doc-5", Text: "five", SourceRef: "s", Embedding: []float32{0, 0, 0, 1}},
			}
			err = driver.Add(context.Background(), docs)
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			Expect(driver.Close()).To(Succeed())
		})

		It("should return the closest document first", func() {
			queryVec := []float32{1, 0, 0, 0}
			results, err := driver.Query(context.Background(), queryVec, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))

			Expect(results[0].ID).To(Equal("doc-1"))
			Expect(results[0].Text).To(Equal("one"))
			Expect(results[1].ID).To(Equal("doc-2"))
		})

		It("should respect topK limit", func() {
			queryVec := []float32{1, 0, 0, 0}
			results, err := driver.Query(context.Background(), queryVec, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})

		It("should default topK to 10 when zero or negative", func() {
			queryVec := []float32{1, 0, 0, 0}
			results, err := driver.Query(context.Background(), queryVec, 0)
			Expect(err).NotTo(HaveOccurred())
			// We only have 5 documents, so we should get 5 back
			Expect(results).To(HaveLen(5))
		})

		It("should return distances in non-decreasing order", func() {
			queryVec := []float32{1, 0, 0, 0}
			results, err := driver.Query(context.Background(), queryVec, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(5))

			for i := 1; i < len(results); i++ {
				Expect(results[i-1].Distance).To(BeNumerically("<=", results[i].Distance))
			}
		})

		It("should reject query embeddings with the wrong dimensionality", func() {
			_, err := driver.Query(context.Background(), []float32{1, 0}, 3)
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})
	})

	Describe("Delete", func() {
		var driver *sqlitevec.SQLiteVecDriver

		BeforeEach(func() {
			var err error
			driver, err = sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
				DBPath:     ":memory:",
				Dimensions: 4,
			}, log)
			Expect(err).NotTo(HaveOccurred())

			docs := []vector.Document{
				{ID: "doc-1", Text: "one", SourceRef: "s", Embedding: []float32{1, 0, 0, 0}},
				{ID: "doc-2", Text: "two", SourceRef: "s", Embedding: []float32{0, 1, 0, 0}},
				{ID: "doc-3", Text: "three", SourceRef: "s", Embedding: []float32{0, 0, 1, 0}},
			}
			err = driver.Add(context.Background(), docs)
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			Expect(driver.Close()).To(Succeed())
		})

		It("should do nothing when given empty IDs", func() {
			err := driver.Delete(context.Background(), []string{})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should delete a single document", func() {
			err := driver.Delete(context.Background(), []string{"doc-1"})
			Expect(err).NotTo(HaveOccurred())

			docs, err := driver.Get(context.Background(), []string{"doc-1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(BeEmpty())

			count, err := driver.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))
		})

		It("should remove documents from query results after deletion", func() {
			err := driver.Delete(context.Background(), []string{"doc-3"})
			Expect(err).NotTo(HaveOccurred())

			queryVec := []float32{0, 0, 1, 0}
			results, err := driver.Query(context.Background(), queryVec, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))

			for _, result := range results {
				Expect(result.ID).NotTo(Equal("doc-3"))
			}
		})
	})
})
