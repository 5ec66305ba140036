package chat_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/parchmentlabs/lectern/pkg/chat"
	"github.com/parchmentlabs/lectern/pkg/embeddings"
	"github.com/parchmentlabs/lectern/pkg/eventstream"
	"github.com/parchmentlabs/lectern/pkg/gate"
	"github.com/parchmentlabs/lectern/pkg/llm"
	"github.com/parchmentlabs/lectern/pkg/logger"
	"github.com/parchmentlabs/lectern/pkg/retrieve"
	"github.com/parchmentlabs/lectern/pkg/transcript"
	testutils "github.com/parchmentlabs/lectern/pkg/utils/test"
	"github.com/parchmentlabs/lectern/pkg/vector"
)

const refusal = "Sorry, I don't know the answer to that."

var _ = Describe("Session", func() {
	var (
		embedder  *testutils.MockEmbedder
		driver    *testutils.MockVectorDriver
		completer *testutils.MockCompleter
		publisher *testutils.MockPublisher
		ctx       context.Context
	)

	BeforeEach(func() {
		embedder = testutils.NewMockEmbedder()
		driver = testutils.NewMockVectorDriver()
		completer = testutils.NewMockCompleter("A grounded answer.")
		publisher = testutils.NewMockPublisher()
		ctx = context.Background()
	})

	newSession := func() *chat.Session {
		retriever, err := retrieve.NewRetriever(embedder, driver, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		g, err := gate.New(gate.MetricDistance, 0.45)
		Expect(err).NotTo(HaveOccurred())

		session, err := chat.NewSession(chat.Config{
			Model:       "gemma3:latest",
			Temperature: 0.5,
			TopK:        4,
			Persona:     "You answer from context.",
			Refusal:     refusal,
			Retriever:   retriever,
			Gate:        g,
			Completer:   completer,
			Publisher:   publisher,
			Logger:      logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
		return session
	}

	closeMatch := func() vector.QueryResult {
		return vector.QueryResult{
			Document: vector.Document{
				ID:        "faq.md#0",
				Text:      "Returns are accepted within 30 days.",
				SourceRef: "faq.md",
			},
			Distance: 0.05,
		}
	}

	Describe("NewSession", func() {
		It("fails fast without a retriever", func() {
			_, err := chat.NewSession(chat.Config{})
			Expect(err).To(HaveOccurred())
		})

		It("fails fast on a topK below 1", func() {
			retriever, err := retrieve.NewRetriever(embedder, driver, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			g, err := gate.New(gate.MetricDistance, 0.45)
			Expect(err).NotTo(HaveOccurred())

			_, err = chat.NewSession(chat.Config{
				Model:     "m",
				TopK:      0,
				Refusal:   refusal,
				Retriever: retriever,
				Gate:      g,
				Completer: completer,
			})
			Expect(err).To(HaveOccurred())
		})

		It("generates a session ID when none is given", func() {
			Expect(newSession().ID()).NotTo(BeEmpty())
		})
	})

	Describe("Respond", func() {
		Context("when retrieval finds nothing (empty index)", func() {
			It("refuses without calling the model", func() {
				session := newSession()

				turn, err := session.Respond(ctx, "hello")
				Expect(err).NotTo(HaveOccurred())

				Expect(turn.Role).To(Equal(transcript.RoleAssistant))
				Expect(turn.Content).To(Equal(refusal))
				Expect(completer.Requests).To(BeEmpty())
				Expect(session.State()).To(Equal(chat.StateIdle))
			})
		})

		Context("when a close chunk passes the gate", func() {
			BeforeEach(func() {
				driver.Results = []vector.QueryResult{closeMatch()}
			})

			It("answers with the model and grounds the prompt in the chunk", func() {
				session := newSession()

				turn, err := session.Respond(ctx, "how do returns work?")
				Expect(err).NotTo(HaveOccurred())
				Expect(turn.Content).To(Equal("A grounded answer."))

				Expect(completer.Requests).To(HaveLen(1))
				req := completer.Requests[0]
				Expect(req.Model).To(Equal("gemma3:latest"))
				Expect(req.Messages[0].Role).To(Equal(llm.RoleSystem))
				Expect(req.Messages[0].Content).To(ContainSubstring("Returns are accepted within 30 days."))
				Expect(req.Messages[len(req.Messages)-1].Content).To(Equal("how do returns work?"))
			})

			It("sends prior turns as history on later cycles", func() {
				session := newSession()

				_, err := session.Respond(ctx, "first question")
				Expect(err).NotTo(HaveOccurred())
				_, err = session.Respond(ctx, "second question")
				Expect(err).NotTo(HaveOccurred())

				Expect(completer.Requests).To(HaveLen(2))
				second := completer.Requests[1]
				// system, user, assistant, user
				Expect(second.Messages).To(HaveLen(4))
				Expect(second.Messages[1].Content).To(Equal("first question"))
				Expect(second.Messages[2].Content).To(Equal("A grounded answer."))
				Expect(second.Messages[3].Content).To(Equal("second question"))
			})
		})

		Context("when the chunk is too far from the query", func() {
			BeforeEach(func() {
				far := closeMatch()
				far.Distance = 0.9
				driver.Results = []vector.QueryResult{far}
			})

			It("substitutes the refusal and skips the model", func() {
				session := newSession()

				turn, err := session.Respond(ctx, "what color is the sky?")
				Expect(err).NotTo(HaveOccurred())
				Expect(turn.Content).To(Equal(refusal))
				Expect(completer.Requests).To(BeEmpty())
			})
		})

		Context("when the embedding service is down", func() {
			BeforeEach(func() {
				embedder.FailOn = "hello"
			})

			It("surfaces an error turn instead of crashing", func() {
				session := newSession()

				turn, err := session.Respond(ctx, "hello")
				Expect(err).NotTo(HaveOccurred())
				Expect(turn.Role).To(Equal(transcript.RoleAssistant))
				Expect(turn.Content).To(ContainSubstring("[embedding_unavailable]"))
				Expect(session.State()).To(Equal(chat.StateIdle))
			})
		})

		Context("when the index was never loaded", func() {
			BeforeEach(func() {
				driver.FailQuery = fmt.Errorf("%w: index.db", vector.ErrNotLoaded)
			})

			It("surfaces the index error kind", func() {
				turn, err := newSession().Respond(ctx, "hello")
				Expect(err).NotTo(HaveOccurred())
				Expect(turn.Content).To(ContainSubstring("[index_not_loaded]"))
			})
		})

		Context("when the model rate limits", func() {
			BeforeEach(func() {
				driver.Results = []vector.QueryResult{closeMatch()}
				completer.Err = fmt.Errorf("%w: slow down", llm.ErrRateLimited)
			})

			It("appends exactly a user turn and an error turn", func() {
				session := newSession()
				before := len(session.Transcript())

				turn, err := session.Respond(ctx, "how do returns work?")
				Expect(err).NotTo(HaveOccurred())
				Expect(turn.Content).To(ContainSubstring("[rate_limited]"))

				turns := session.Transcript()
				Expect(turns).To(HaveLen(before + 2))
				Expect(turns[len(turns)-2].Role).To(Equal(transcript.RoleUser))
				Expect(turns[len(turns)-1].Role).To(Equal(transcript.RoleAssistant))
			})
		})

		DescribeTable("every branch appends exactly one user and one assistant turn",
			func(setup func()) {
				setup()
				session := newSession()

				_, err := session.Respond(ctx, "hello")
				Expect(err).NotTo(HaveOccurred())

				turns := session.Transcript()
				Expect(turns).To(HaveLen(2))
				Expect(turns[0].Role).To(Equal(transcript.RoleUser))
				Expect(turns[1].Role).To(Equal(transcript.RoleAssistant))
				Expect(session.State()).To(Equal(chat.StateIdle))
			},
			Entry("success", func() {
				driver.Results = []vector.QueryResult{closeMatch()}
			}),
			Entry("gate refusal", func() {}),
			Entry("retriever failure", func() {
				embedder.FailOn = "hello"
				embedder.Err = fmt.Errorf("%w: down", embeddings.ErrUnavailable)
			}),
			Entry("LLM failure", func() {
				driver.Results = []vector.QueryResult{closeMatch()}
				completer.Err = fmt.Errorf("%w: boom", llm.ErrUpstream)
			}),
		)

		It("publishes a turn event per appended turn", func() {
			driver.Results = []vector.QueryResult{closeMatch()}
			session := newSession()

			_, err := session.Respond(ctx, "how do returns work?")
			Expect(err).NotTo(HaveOccurred())

			events := publisher.Published()
			Expect(events).To(HaveLen(2))
			Expect(events[0].Turn.Role).To(Equal(transcript.RoleUser))
			Expect(events[1].Turn.Role).To(Equal(transcript.RoleAssistant))
			Expect(events[1].Outcome).To(Equal(eventstream.OutcomeAnswered))
			Expect(events[1].SessionID).To(Equal(session.ID()))
		})

		It("marks refused cycles in events", func() {
			session := newSession()

			_, err := session.Respond(ctx, "hello")
			Expect(err).NotTo(HaveOccurred())

			events := publisher.Published()
			Expect(events[1].Outcome).To(Equal(eventstream.OutcomeRefused))
		})

		It("marks errored cycles in events with the error kind", func() {
			driver.Results = []vector.QueryResult{closeMatch()}
			completer.Err = fmt.Errorf("%w: slow down", llm.ErrRateLimited)
			session := newSession()

			_, err := session.Respond(ctx, "hello")
			Expect(err).NotTo(HaveOccurred())

			events := publisher.Published()
			Expect(events[1].Outcome).To(Equal(eventstream.OutcomeErrored))
			Expect(events[1].ErrorKind).To(Equal("rate_limited"))
		})

		It("keeps the conversation going when the event backend is down", func() {
			driver.Results = []vector.QueryResult{closeMatch()}
			publisher.Err = fmt.Errorf("broker unreachable")
			session := newSession()

			turn, err := session.Respond(ctx, "how do returns work?")
			Expect(err).NotTo(HaveOccurred())
			Expect(turn.Content).To(Equal("A grounded answer."))
		})
	})
})
