package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent lectern configuration stored as
// config.toml in the .lectern/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	API         APIConfig         `toml:"api"`
	LLM         LLMConfig         `toml:"llm"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Gate        GateConfig        `toml:"gate"`
	Chat        ChatConfig        `toml:"chat"`
	Index       IndexConfig       `toml:"index"`
	Events      EventsConfig      `toml:"events"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// LLMConfig holds completion provider settings.
type LLMConfig struct {
	Provider    string  `toml:"provider,omitempty"`
	Target      string  `toml:"target,omitempty"`
	Model       string  `toml:"model,omitempty"`
	Temperature float64 `toml:"temperature,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// VectorStoreConfig holds vector store settings. Target is a file path for
// the sqlite provider and a base URL for the chroma provider; empty means
// the default index artifact in the .lectern/ directory.
type VectorStoreConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Collection string `toml:"collection,omitempty"`
}

// GateConfig holds relevance gate settings. Metric selects the comparison
// polarity ("distance": answer when closest <= threshold, "similarity":
// answer when closest >= threshold).
type GateConfig struct {
	Metric    string  `toml:"metric,omitempty"`
	Threshold float64 `toml:"threshold,omitempty"`
}

// ChatConfig holds chat session settings.
type ChatConfig struct {
	Persona string `toml:"persona,omitempty"`
	Refusal string `toml:"refusal,omitempty"`
	TopK    int    `toml:"top_k,omitempty"`
}

// IndexConfig holds offline index build settings. ChunkSize and Overlap are
// measured in words.
type IndexConfig struct {
	ChunkSize int `toml:"chunk_size,omitempty"`
	Overlap   int `toml:"overlap,omitempty"`
}

// EventsConfig holds turn event stream settings. Provider "nop" disables
// publishing; "kafka" publishes to the configured brokers and topic.
type EventsConfig struct {
	Provider string `toml:"provider,omitempty"`
	Brokers  string `toml:"brokers,omitempty"`
	Topic    string `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"llm.provider": {
		get: func(c *Config) string { return c.LLM.Provider },
		set: func(c *Config, v string) error { c.LLM.Provider = v; return nil },
	},
	"llm.target": {
		get: func(c *Config) string { return c.LLM.Target },
		set: func(c *Config, v string) error { c.LLM.Target = v; return nil },
	},
	"llm.model": {
		get: func(c *Config) string { return c.LLM.Model },
		set: func(c *Config, v string) error { c.LLM.Model = v; return nil },
	},
	"llm.temperature": {
		get: func(c *Config) string {
			return strconv.FormatFloat(c.LLM.Temperature, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for llm.temperature: %w", err)
			}
			c.LLM.Temperature = f
			return nil
		},
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.dimensions": {
		get: func(c *Config) string {
			if c.Embedding.Dimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Embedding.Dimensions), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.dimensions: %w", err)
			}
			c.Embedding.Dimensions = uint(n)
			return nil
		},
	},
	"vector_store.provider": {
		get: func(c *Config) string { return c.VectorStore.Provider },
		set: func(c *Config, v string) error { c.VectorStore.Provider = v; return nil },
	},
	"vector_store.target": {
		get: func(c *Config) string { return c.VectorStore.Target },
		set: func(c *Config, v string) error { c.VectorStore.Target = v; return nil },
	},
	"vector_store.collection": {
		get: func(c *Config) string { return c.VectorStore.Collection },
		set: func(c *Config, v string) error { c.VectorStore.Collection = v; return nil },
	},
	"gate.metric": {
		get: func(c *Config) string { return c.Gate.Metric },
		set: func(c *Config, v string) error {
			if v != "distance" && v != "similarity" {
				return fmt.Errorf("invalid value for gate.metric: %q (want distance or similarity)", v)
			}
			c.Gate.Metric = v
			return nil
		},
	},
	"gate.threshold": {
		get: func(c *Config) string {
			return strconv.FormatFloat(c.Gate.Threshold, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for gate.threshold: %w", err)
			}
			c.Gate.Threshold = f
			return nil
		},
	},
	"chat.persona": {
		get: func(c *Config) string { return c.Chat.Persona },
		set: func(c *Config, v string) error { c.Chat.Persona = v; return nil },
	},
	"chat.refusal": {
		get: func(c *Config) string { return c.Chat.Refusal },
		set: func(c *Config, v string) error { c.Chat.Refusal = v; return nil },
	},
	"chat.top_k": {
		get: func(c *Config) string {
			if c.Chat.TopK == 0 {
				return ""
			}
			return strconv.Itoa(c.Chat.TopK)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for chat.top_k: %w", err)
			}
			c.Chat.TopK = n
			return nil
		},
	},
	"index.chunk_size": {
		get: func(c *Config) string {
			if c.Index.ChunkSize == 0 {
				return ""
			}
			return strconv.Itoa(c.Index.ChunkSize)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for index.chunk_size: %w", err)
			}
			c.Index.ChunkSize = n
			return nil
		},
	},
	"index.overlap": {
		get: func(c *Config) string { return strconv.Itoa(c.Index.Overlap) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for index.overlap: %w", err)
			}
			c.Index.Overlap = n
			return nil
		},
	},
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error { c.Events.Provider = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
}
