package config

const (
	defaultAPIListen = ":8084"

	defaultLLMProvider = "ollama"
	defaultLLMTarget   = "http://localhost:11434"
	defaultLLMModel    = "gemma3:latest"
	defaultTemperature = 0.5

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768

	defaultVectorProvider   = "sqlite"
	defaultVectorCollection = "lectern"

	defaultGateMetric    = "distance"
	defaultGateThreshold = 0.45

	defaultTopK      = 4
	defaultChunkSize = 300
	defaultOverlap   = 50

	defaultEventsProvider = "nop"
	defaultEventsTopic    = "lectern.turns"

	// DefaultPersona is the system persona used when none is configured.
	// Retrieved context is appended to it by the prompt assembler.
	DefaultPersona = "You are a helpful assistant. Answer the user's questions using only the provided context. If the context does not contain the answer, say so."

	// DefaultRefusal is the canned reply substituted when the relevance
	// gate decides retrieved context is not close enough to the question.
	DefaultRefusal = "Sorry, I don't know the answer to that. If you have questions about the indexed material, feel free to ask!"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		LLM: LLMConfig{
			Provider:    defaultLLMProvider,
			Target:      defaultLLMTarget,
			Model:       defaultLLMModel,
			Temperature: defaultTemperature,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		VectorStore: VectorStoreConfig{
			Provider:   defaultVectorProvider,
			Collection: defaultVectorCollection,
		},
		Gate: GateConfig{
			Metric:    defaultGateMetric,
			Threshold: defaultGateThreshold,
		},
		Chat: ChatConfig{
			Persona: DefaultPersona,
			Refusal: DefaultRefusal,
			TopK:    defaultTopK,
		},
		Index: IndexConfig{
			ChunkSize: defaultChunkSize,
			Overlap:   defaultOverlap,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
	}
}
