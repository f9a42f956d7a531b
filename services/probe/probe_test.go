package probe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqle "github.com/dolthub/go-mysql-server"
	"github.com/dolthub/go-mysql-server/memory"
	"github.com/dolthub/go-mysql-server/server"
	"github.com/dolthub/go-mysql-server/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camsapi/models"
)

func getFreePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}

// startMySQLServer runs an in-memory MySQL-protocol server and blocks until
// it accepts connections.
func startMySQLServer(t *testing.T, dbName string) (host string, port int) {
	t.Helper()

	port = getFreePort(t)

	db := memory.NewDatabase(dbName)
	provider := memory.NewDBProvider(db)
	engine := sqle.NewDefault(provider)

	config := server.Config{
		Protocol: "tcp",
		Address:  fmt.Sprintf("localhost:%d", port),
	}
	s, err := server.NewServer(config, engine, sql.NewContext, memory.NewSessionBuilder(provider), nil)
	require.NoError(t, err)

	go func() {
		if err := s.Start(); err != nil {
			t.Logf("mysql server exited: %v", err)
		}
	}()
	t.Cleanup(func() { s.Close() })

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		c, err := net.DialTimeout("tcp", fmt.Sprintf("localhost:%d", port), 100*time.Millisecond)
		if err == nil {
			c.Close()
			return "localhost", port
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("mysql server did not come up within 5s")
	return "", 0
}

// TestProbe_MySQLHealthy tests a successful probe against a live server.
func TestProbe_MySQLHealthy(t *testing.T) {
	host, port := startMySQLServer(t, "testdb")

	conn := &models.DatabaseConnection{
		Name:         "orders-db",
		Type:         models.TypeMySQL,
		Host:         host,
		Port:         port,
		DatabaseName: "testdb",
		Username:     "root",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := New().Probe(ctx, conn)
	assert.True(t, result.Success, "expected probe to pass: %s", result.Message)
	assert.Equal(t, "connected successfully", result.Message)
	assert.Greater(t, result.Duration, time.Duration(0))
}

// TestProbe_MySQLUnreachable tests that a dial failure becomes a failed
// result carrying the driver message.
func TestProbe_MySQLUnreachable(t *testing.T) {
	port := getFreePort(t) // nothing listens here

	conn := &models.DatabaseConnection{
		Name:         "orders-db",
		Type:         models.TypeMySQL,
		Host:         "localhost",
		Port:         port,
		DatabaseName: "testdb",
		Username:     "root",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result := New().Probe(ctx, conn)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "mysql ping failed")
}

// TestProbe_TCPKinds tests the generic dial path used for kinds without a
// native driver.
func TestProbe_TCPKinds(t *testing.T) {
	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer l.Close()
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()
	port := l.Addr().(*net.TCPAddr).Port

	conn := &models.DatabaseConnection{
		Name: "cache",
		Type: models.TypeRedis,
		Host: "localhost",
		Port: port,
	}

	result := New().Probe(context.Background(), conn)
	assert.True(t, result.Success, "expected reachable listener to pass: %s", result.Message)

	conn.Port = getFreePort(t)
	result = New().Probe(context.Background(), conn)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "tcp dial")
}

// TestProbe_HTTPKinds tests the API path: sub-500 statuses pass, 5xx fails,
// and the API key travels as a bearer header.
func TestProbe_HTTPKinds(t *testing.T) {
	var gotAuth string
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(status)
	}))
	defer srv.Close()

	conn := &models.DatabaseConnection{
		Name:             "billing-api",
		Type:             models.TypeREST,
		ConnectionString: srv.URL,
		APIKey:           "sk-test",
	}

	result := New().Probe(context.Background(), conn)
	assert.True(t, result.Success)
	assert.Equal(t, "Bearer sk-test", gotAuth)

	// Auth failures still prove the endpoint is alive.
	status = http.StatusUnauthorized
	result = New().Probe(context.Background(), conn)
	assert.True(t, result.Success)

	status = http.StatusInternalServerError
	result = New().Probe(context.Background(), conn)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "status 500")
}

// TestProbe_Timeout tests that a blocked endpoint fails once the context
// deadline passes instead of hanging.
func TestProbe_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	conn := &models.DatabaseConnection{
		Name:             "slow-api",
		Type:             models.TypeGraphQL,
		ConnectionString: srv.URL,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	result := New().Probe(ctx, conn)
	assert.False(t, result.Success)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, strings.Contains(result.Message, "context deadline exceeded") ||
		strings.Contains(result.Message, "http request failed"),
		"unexpected message: %s", result.Message)
}
