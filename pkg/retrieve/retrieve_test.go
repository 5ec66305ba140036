package retrieve_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/parchmentlabs/lectern/pkg/embeddings"
	"github.com/parchmentlabs/lectern/pkg/logger"
	"github.com/parchmentlabs/lectern/pkg/retrieve"
	testutils "github.com/parchmentlabs/lectern/pkg/utils/test"
	"github.com/parchmentlabs/lectern/pkg/vector"
)

var _ = Describe("Retriever", func() {
	var (
		embedder *testutils.MockEmbedder
		driver   *testutils.MockVectorDriver
		ctx      context.Context
	)

	BeforeEach(func() {
		embedder = testutils.NewMockEmbedder()
		driver = testutils.NewMockVectorDriver()
		ctx = context.Background()
	})

	newRetriever := func() *retrieve.Retriever {
		r, err := retrieve.NewRetriever(embedder, driver, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		return r
	}

	Describe("NewRetriever", func() {
		It("requires an embedder", func() {
			_, err := retrieve.NewRetriever(nil, driver, logger.Nop())
			Expect(err).To(HaveOccurred())
		})

		It("requires a vector driver", func() {
			_, err := retrieve.NewRetriever(embedder, nil, logger.Nop())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Retrieve", func() {
		It("rejects empty queries", func() {
			_, err := newRetriever().Retrieve(ctx, "   ", 3)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("query must not be empty"))
		})

		It("rejects k below 1", func() {
			_, err := newRetriever().Retrieve(ctx, "question", 0)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("k must be at least 1"))
		})

		It("returns matches ordered closest first", func() {
			driver.Results = []vector.QueryResult{
				{Document: vector.Document{ID: "a#0", Text: "near", SourceRef: "a"}, Distance: 0.1},
				{Document: vector.Document{ID: "a#1", Text: "far", SourceRef: "a"}, Distance: 0.6},
			}

			result, err := newRetriever().Retrieve(ctx, "question", 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Matches).To(HaveLen(2))
			Expect(result.Matches[0].ID).To(Equal("a#0"))
			Expect(result.Matches[0].Text).To(Equal("near"))
			Expect(result.Matches[1].ID).To(Equal("a#1"))
		})

		It("re-sorts results that arrive out of order", func() {
			driver.Results = []vector.QueryResult{
				{Document: vector.Document{ID: "far"}, Distance: 0.9},
				{Document: vector.Document{ID: "near"}, Distance: 0.2},
			}

			result, err := newRetriever().Retrieve(ctx, "question", 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Matches[0].ID).To(Equal("near"))
		})

		It("returns fewer matches than k when the index is small", func() {
			driver.Results = []vector.QueryResult{
				{Document: vector.Document{ID: "only"}, Distance: 0.3},
			}

			result, err := newRetriever().Retrieve(ctx, "question", 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Matches).To(HaveLen(1))
		})

		It("surfaces embedding failures", func() {
			embedder.FailOn = "question"

			_, err := newRetriever().Retrieve(ctx, "question", 3)
			Expect(err).To(MatchError(embeddings.ErrUnavailable))
		})

		It("surfaces vector store failures", func() {
			driver.FailQuery = vector.ErrNotLoaded

			_, err := newRetriever().Retrieve(ctx, "question", 3)
			Expect(err).To(MatchError(vector.ErrNotLoaded))
		})

		It("trims the query before embedding", func() {
			result, err := newRetriever().Retrieve(ctx, "  question  ", 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Query).To(Equal("question"))
		})
	})

	Describe("Closest", func() {
		It("returns false for an empty result", func() {
			result := &retrieve.Result{}
			_, ok := result.Closest()
			Expect(ok).To(BeFalse())
		})

		It("returns the first match", func() {
			driver.Results = []vector.QueryResult{
				{Document: vector.Document{ID: "a#0"}, Distance: 0.1},
				{Document: vector.Document{ID: "a#1"}, Distance: 0.5},
			}

			result, err := newRetriever().Retrieve(ctx, "question", 2)
			Expect(err).NotTo(HaveOccurred())

			closest, ok := result.Closest()
			Expect(ok).To(BeTrue())
			Expect(closest.ID).To(Equal("a#0"))
		})
	})
})
