package probe

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"camsapi/models"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
)

// probeMySQL opens a database/sql connection with the MySQL driver and pings it.
func probeMySQL(ctx context.Context, conn *models.DatabaseConnection) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		conn.Username, conn.Password, conn.Host, conn.Port, conn.DatabaseName)
	if conn.UseSSL {
		dsn += "?tls=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("mysql open failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("mysql ping failed: %w", err)
	}
	return nil
}

// probePostgres connects with pgx and relies on its startup handshake.
func probePostgres(ctx context.Context, conn *models.DatabaseConnection) error {
	sslMode := "disable"
	if conn.UseSSL {
		sslMode = "require"
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(conn.Username), url.QueryEscape(conn.Password),
		conn.Host, conn.Port, conn.DatabaseName, sslMode)

	pg, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("postgres connect failed: %w", err)
	}
	defer pg.Close(ctx)

	if err := pg.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}
