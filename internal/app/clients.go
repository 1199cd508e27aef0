package app

import (
	"fmt"

	"github.com/playdeck/gameguide-backend/internal/clients/openai"
	redisclient "github.com/playdeck/gameguide-backend/internal/clients/redis"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
	"github.com/playdeck/gameguide-backend/internal/platform/weaviate"
)

type Clients struct {
	Openai   openai.Client
	Sessions redisclient.SessionStore
	Vector   weaviate.VectorStore
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	// Openai
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	// Redis
	sessions, err := redisclient.NewSessionStore(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis session store: %w", err)
	}

	// Weaviate
	weaviateCfg, err := weaviate.ResolveConfigFromEnv()
	if err != nil {
		return Clients{}, fmt.Errorf("resolve weaviate config: %w", err)
	}
	store, err := weaviate.NewVectorStore(log, weaviateCfg)
	if err != nil {
		return Clients{}, fmt.Errorf("init weaviate store: %w", err)
	}

	return Clients{
		Openai:   openaiClient,
		Sessions: sessions,
		Vector:   instrumentVectorStore(log, store),
	}, nil
}
