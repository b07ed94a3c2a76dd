package tools

import (
	"context"

	"github.com/usestring/fergun/internal/config"
	"github.com/usestring/fergun/internal/query"
	"github.com/usestring/fergun/pkg/wolfram"
)

// Querier runs Wolfram|Alpha queries. *wolfram.Client implements it.
type Querier interface {
	Query(ctx context.Context, input, language string) (*wolfram.QueryResult, error)
}

// Suggester returns autocomplete suggestions. *cache.AutocompleteCache and
// *wolfram.Client implement it.
type Suggester interface {
	Autocomplete(ctx context.Context, input string) ([]string, error)
}

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Wolfram      Querier
	Autocomplete Suggester
	Query        *query.Engine
	Config       *config.Config
}
