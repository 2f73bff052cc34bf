package store

import (
	neo4jdb "Relopilot_1.0/backend/go/internal/database/neo4j"
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphStore is the write-only projection of committed facts into the
// semantic graph. It is a secondary index for later retrieval, never the
// source of truth.
type GraphStore interface {
	AddFact(ctx context.Context, userID, statement string) error
}

// Neo4jGraphStore is an implementation of the GraphStore interface that uses
// Neo4j as the backend.
type Neo4jGraphStore struct {
	client *neo4jdb.Neo4jClient
}

// NewNeo4jGraphStore creates a new Neo4jGraphStore.
func NewNeo4jGraphStore(client *neo4jdb.Neo4jClient) *Neo4jGraphStore {
	return &Neo4jGraphStore{client: client}
}

// AddFact merges a natural-language fact statement into the user's graph
// inside a managed write transaction. MERGE keeps the write idempotent per
// statement.
func (s *Neo4jGraphStore) AddFact(ctx context.Context, userID, statement string) error {
	query := `
	MERGE (u:User {user_id: $user_id})
	MERGE (f:Fact {statement: $statement, user_id: $user_id})
	MERGE (u)-[:HAS_FACT]->(f)
	`
	params := map[string]interface{}{
		"user_id":   userID,
		"statement": statement,
	}
	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		return tx.Run(ctx, query, params)
	})
	if err != nil {
		return fmt.Errorf("failed to add fact to neo4j: %w", err)
	}
	return nil
}
