package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --model on
// both "lectern chat" and "lectern serve").
type Flag struct {
	// Name is the long flag name (e.g. "model").
	Name string

	// Shorthand is the one-letter short flag (e.g. "m"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "llm.model").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag registry keys to Flag structs.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddIntFlag, AddUintFlag,
// AddFloatFlag, and BindRegisteredFlags to avoid typos or drift from one
// command to another.
const (
	FlagAPIListen      = "api-listen"
	FlagLLMProvider    = "llm-provider"
	FlagLLMTarget      = "llm-target"
	FlagModel          = "model"
	FlagTemperature    = "temperature"
	FlagEmbeddingProv  = "embedding-provider"
	FlagEmbeddingTgt   = "embedding-target"
	FlagEmbeddingModel = "embedding-model"
	FlagEmbeddingDims  = "embedding-dimensions"
	FlagVectorProv     = "vector-store-provider"
	FlagVectorTgt      = "vector-store-target"
	FlagCollection     = "collection"
	FlagGateMetric     = "gate-metric"
	FlagGateThreshold  = "gate-threshold"
	FlagPersona        = "persona"
	FlagTopK           = "top-k"
	FlagChunkSize      = "chunk-size"
	FlagOverlap        = "overlap"
)

// Flags is the shared flag registry used by lectern commands.
var Flags = FlagSet{
	FlagAPIListen: {
		Name: "listen", Shorthand: "l",
		ViperKey:    "api.listen",
		Description: "Address for the API server to listen on",
	},
	FlagLLMProvider: {
		Name:        "llm-provider",
		ViperKey:    "llm.provider",
		Description: "Completion provider (ollama, openai)",
	},
	FlagLLMTarget: {
		Name:        "llm-target",
		ViperKey:    "llm.target",
		Description: "Completion provider base URL",
	},
	FlagModel: {
		Name: "model", Shorthand: "m",
		ViperKey:    "llm.model",
		Description: "Completion model name",
	},
	FlagTemperature: {
		Name:        "temperature",
		ViperKey:    "llm.temperature",
		Description: "Completion sampling temperature",
	},
	FlagEmbeddingProv: {
		Name:        "embedding-provider",
		ViperKey:    "embedding.provider",
		Description: "Embedding provider (ollama, openai)",
	},
	FlagEmbeddingTgt: {
		Name:        "embedding-target",
		ViperKey:    "embedding.target",
		Description: "Embedding provider base URL",
	},
	FlagEmbeddingModel: {
		Name:        "embedding-model",
		ViperKey:    "embedding.model",
		Description: "Embedding model name",
	},
	FlagEmbeddingDims: {
		Name:        "embedding-dimensions",
		ViperKey:    "embedding.dimensions",
		Description: "Embedding vector dimensionality",
	},
	FlagVectorProv: {
		Name:        "vector-store-provider",
		ViperKey:    "vector_store.provider",
		Description: "Vector store provider (memory, sqlite, chroma)",
	},
	FlagVectorTgt: {
		Name:        "vector-store-target",
		ViperKey:    "vector_store.target",
		Description: "Vector store path or URL",
	},
	FlagCollection: {
		Name:        "collection",
		ViperKey:    "vector_store.collection",
		Description: "Vector store collection name",
	},
	FlagGateMetric: {
		Name:        "gate-metric",
		ViperKey:    "gate.metric",
		Description: "Relevance gate metric polarity (distance, similarity)",
	},
	FlagGateThreshold: {
		Name:        "gate-threshold",
		ViperKey:    "gate.threshold",
		Description: "Relevance gate threshold",
	},
	FlagPersona: {
		Name:        "persona",
		ViperKey:    "chat.persona",
		Description: "System persona for the assistant",
	},
	FlagTopK: {
		Name: "top-k", Shorthand: "k",
		ViperKey:    "chat.top_k",
		Description: "Number of chunks to retrieve per question",
	},
	FlagChunkSize: {
		Name:        "chunk-size",
		ViperKey:    "index.chunk_size",
		Description: "Chunk size in words for index builds",
	},
	FlagOverlap: {
		Name:        "overlap",
		ViperKey:    "index.overlap",
		Description: "Chunk overlap in words for index builds",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, key string, target *int) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultInt(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().IntVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, key string, target *uint) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultUint(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().UintVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddFloatFlag registers a float64 flag on cmd from the given FlagSet.
func AddFloatFlag(cmd *cobra.Command, fs FlagSet, key string, target *float64) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultFloat(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().Float64VarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().Float64Var(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using
// definitions from the given FlagSet. Call this in PreRunE after InitViper
// to connect flags to the viper precedence chain
// (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	info, ok := configKeys[viperKey]
	if !ok {
		return ""
	}
	return info.get(NewDefaultConfig())
}

func defaultInt(viperKey string) int {
	switch viperKey {
	case "chat.top_k":
		return defaultTopK
	case "index.chunk_size":
		return defaultChunkSize
	case "index.overlap":
		return defaultOverlap
	default:
		return 0
	}
}

func defaultUint(viperKey string) uint {
	if viperKey == "embedding.dimensions" {
		return defaultEmbeddingDimensions
	}
	return 0
}

func defaultFloat(viperKey string) float64 {
	switch viperKey {
	case "llm.temperature":
		return defaultTemperature
	case "gate.threshold":
		return defaultGateThreshold
	default:
		return 0
	}
}
