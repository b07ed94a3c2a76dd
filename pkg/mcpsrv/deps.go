package mcpsrv

import (
	"github.com/usestring/fergun/internal/cache"
	"github.com/usestring/fergun/internal/config"
	"github.com/usestring/fergun/internal/query"
	"github.com/usestring/fergun/pkg/wolfram"
)

// Deps contains all dependencies available to custom tools.
// Custom tools share the client, autocomplete cache and jq engine with the
// builtin tools.
type Deps struct {
	Wolfram      *wolfram.Client
	Autocomplete *cache.AutocompleteCache
	Query        *query.Engine
	Config       *config.Config
}
