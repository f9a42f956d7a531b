package probe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"camsapi/models"
)

// probeTCP dials the endpoint. Used for kinds without a native driver in
// this codebase (redis, mongodb, cassandra, and so on); a completed TCP
// handshake counts as reachable.
func probeTCP(ctx context.Context, conn *models.DatabaseConnection) error {
	addr := net.JoinHostPort(conn.Host, strconv.Itoa(conn.Port))

	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("tcp dial %s failed: %w", addr, err)
	}
	c.Close()
	return nil
}

// probeHTTP issues a GET against the connection URL. Any response below 500
// counts as reachable; auth failures still prove the endpoint is alive.
func probeHTTP(ctx context.Context, conn *models.DatabaseConnection) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, conn.ConnectionString, nil)
	if err != nil {
		return fmt.Errorf("invalid connection URL: %w", err)
	}
	if conn.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+conn.APIKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
