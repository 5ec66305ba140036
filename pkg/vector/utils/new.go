package vectorutils

import (
	"fmt"
	"log/slog"

	"github.com/parchmentlabs/lectern/pkg/vector"
	"github.com/parchmentlabs/lectern/pkg/vector/chroma"
	"github.com/parchmentlabs/lectern/pkg/vector/memory"
	"github.com/parchmentlabs/lectern/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	ProviderType    string
	TargetURL       string
	DBPath          string
	Collection      string
	Dimensions      uint
	RequireExisting bool
	Logger          *slog.Logger
}

func NewVectorDriver(o *NewVectorDriverOpts) (vector.VectorDriver, error) {
	switch o.ProviderType {
	case "memory":
		return memory.NewMemoryDriver(o.Logger), nil
	case "sqlite":
		return sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
			DBPath:          o.DBPath,
			Dimensions:      o.Dimensions,
			RequireExisting: o.RequireExisting,
		}, o.Logger)
	case "chroma":
		return chroma.NewChromaDriver(chroma.Config{
			URL:            o.TargetURL,
			CollectionName: o.Collection,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
