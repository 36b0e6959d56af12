package endpoints

import (
	"github.com/jackzampolin/freestyle/internal/api"
	"github.com/jackzampolin/freestyle/internal/store"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// DBManager is the managed Postgres container, nil otherwise.
	DBManager *store.DockerManager
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{DBManager: cfg.DBManager},

		// Auth endpoints
		&RegisterEndpoint{},
		&LoginEndpoint{},
		&MeEndpoint{},

		// Prompt endpoints
		&ListPromptsEndpoint{},
		&SubmitPromptEndpoint{},
		&UpdatePromptEndpoint{},
		&DeletePromptEndpoint{},
		&CounterEndpoint{Counter: store.CounterLikes},
		&CounterEndpoint{Counter: store.CounterViews},

		// Favorite endpoints
		&ListFavoritesEndpoint{},
		&AddFavoriteEndpoint{},
		&RemoveFavoriteEndpoint{},

		// Admin endpoints
		&StatsEndpoint{},
		&ListUsersEndpoint{},
		&AllPromptsEndpoint{},

		// Advice endpoints
		&DanceAdviceEndpoint{},
		&CreateDrillsEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},
	}
}
