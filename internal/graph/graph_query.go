package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// LinkResult is one edge touching a queried key.
type LinkResult struct {
	From     string
	To       string
	Locale   string
	Incoming bool
}

// GraphQuerier reads key links back from Neo4j.
type GraphQuerier struct {
	driver neo4j.DriverWithContext
}

func NewGraphQuerier(driver neo4j.DriverWithContext) *GraphQuerier {
	return &GraphQuerier{driver: driver}
}

// Links returns the outgoing and incoming links of the key with the given id.
func (gq *GraphQuerier) Links(ctx context.Context, id string) ([]LinkResult, error) {
	session := gq.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (k:Key {id: $id})-[r:LINKS_TO]->(other:Key)
		RETURN k.id AS from_node, other.id AS to_node, r.locale AS locale, false AS incoming
		UNION
		MATCH (other:Key)-[r:LINKS_TO]->(k:Key {id: $id})
		RETURN other.id AS from_node, k.id AS to_node, r.locale AS locale, true AS incoming
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}

	var links []LinkResult
	for result.Next(ctx) {
		record := result.Record()
		from, _ := record.Get("from_node")
		to, _ := record.Get("to_node")
		locale, _ := record.Get("locale")
		incoming, _ := record.Get("incoming")

		in, _ := incoming.(bool)
		links = append(links, LinkResult{
			From:     fmt.Sprintf("%v", from),
			To:       fmt.Sprintf("%v", to),
			Locale:   fmt.Sprintf("%v", locale),
			Incoming: in,
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read links: %w", err)
	}

	log.Debug().Str("key", id).Int("links", len(links)).Msg("Graph query complete")
	return links, nil
}
