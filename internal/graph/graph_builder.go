package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"

	"strings-toolkit/internal/catalog"
)

// LinkTag is the comment tag holding a "File:key" reference.
const LinkTag = "link"

// KeyNode is one key of one table with its value in every locale.
type KeyNode struct {
	ID     string // "File:key", key in encoded form
	File   string
	Key    string
	Values map[string]string // locale -> raw value
}

// Link is a directed reference from one key to another.
type Link struct {
	From   string
	To     string
	Locale string
}

// Collect builds the key nodes and link edges of a catalog. Link tags that do
// not parse are reported as problems and skipped.
func Collect(c *catalog.Catalog) (nodes []KeyNode, links []Link, problems []error) {
	byID := map[string]int{}
	for _, t := range c.Tables() {
		for _, f := range t.Files() {
			doc := f.Doc()
			for _, kv := range doc.KeyValues() {
				key := kv.KeyText()
				id := catalog.FormatFileKey(t.Name, key.Encoded())
				i, ok := byID[id]
				if !ok {
					i = len(nodes)
					byID[id] = i
					nodes = append(nodes, KeyNode{ID: id, File: t.Name, Key: key.Encoded(), Values: map[string]string{}})
				}
				nodes[i].Values[f.Locale] = kv.ValueText().Raw()

				ref, ok := doc.TagValue(key, LinkTag)
				if !ok {
					continue
				}
				file, target, err := catalog.ParseFileKey(ref)
				if err != nil {
					problems = append(problems, fmt.Errorf("%s (%s): %w", id, f.Locale, err))
					continue
				}
				links = append(links, Link{From: id, To: catalog.FormatFileKey(file, target), Locale: f.Locale})
			}
		}
	}
	return nodes, links, problems
}

// properties flattens a node's values into "value_<locale>" properties.
func (n KeyNode) properties() map[string]any {
	props := make(map[string]any, len(n.Values))
	for locale, v := range n.Values {
		props["value_"+locale] = v
	}
	return props
}

// GraphBuilder writes key nodes and links to Neo4j.
type GraphBuilder struct {
	driver neo4j.DriverWithContext
}

func NewGraphBuilder(driver neo4j.DriverWithContext) *GraphBuilder {
	return &GraphBuilder{driver: driver}
}

// EnsureSchema creates constraints on the Neo4j database.
func (gb *GraphBuilder) EnsureSchema(ctx context.Context) error {
	session := gb.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (k:Key) REQUIRE k.id IS UNIQUE",
	}
	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Debug().Msg("Graph schema ensured")
	return nil
}

// Publish merges every node and link. Links to keys that were never
// published create placeholder nodes so dangling references stay visible.
func (gb *GraphBuilder) Publish(ctx context.Context, nodes []KeyNode, links []Link) error {
	session := gb.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	for _, n := range nodes {
		_, err := session.Run(ctx, `
			MERGE (k:Key {id: $id})
			SET k.file = $file,
			    k.key = $key,
			    k += $values
		`, map[string]any{
			"id":     n.ID,
			"file":   n.File,
			"key":    n.Key,
			"values": n.properties(),
		})
		if err != nil {
			return fmt.Errorf("upsert key %s: %w", n.ID, err)
		}
	}
	log.Info().Int("keys", len(nodes)).Msg("Published key nodes")

	for _, l := range links {
		_, err := session.Run(ctx, `
			MATCH (a:Key {id: $from})
			MERGE (b:Key {id: $to})
			MERGE (a)-[r:LINKS_TO {locale: $locale}]->(b)
		`, map[string]any{
			"from":   l.From,
			"to":     l.To,
			"locale": l.Locale,
		})
		if err != nil {
			log.Warn().Err(err).
				Str("from", l.From).
				Str("to", l.To).
				Msg("Failed to create link")
		}
	}

	log.Info().Int("links", len(links)).Msg("Published key links")
	return nil
}
