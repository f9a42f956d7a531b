package probe

import (
	"context"
	"fmt"

	"camsapi/models"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// probeNeo4j verifies connectivity through the bolt driver handshake.
func probeNeo4j(ctx context.Context, conn *models.DatabaseConnection) error {
	scheme := "bolt"
	if conn.UseSSL {
		scheme = "bolt+s"
	}
	uri := fmt.Sprintf("%s://%s:%d", scheme, conn.Host, conn.Port)

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(conn.Username, conn.Password, ""))
	if err != nil {
		return fmt.Errorf("neo4j driver creation failed: %w", err)
	}
	defer driver.Close(ctx)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j connectivity check failed: %w", err)
	}
	return nil
}
