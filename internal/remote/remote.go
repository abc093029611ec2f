// Package remote is the client for the hosted relational store that the
// sync engine treats as authoritative whenever it can be reached. Every
// table holds JSON documents keyed by id.
package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/pkg/errors"
)

// DefaultTimeout bounds every remote call when no timeout is configured.
const DefaultTimeout = 3 * time.Second

var (
	// ErrNotConfigured is returned by every operation of a client without
	// credentials. No network I/O is attempted.
	ErrNotConfigured = errors.New("remote: not configured")

	// ErrInvalidTable is returned for table names outside [a-z0-9_].
	ErrInvalidTable = errors.New("remote: invalid table name")
)

var tableName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Client is the narrow surface the sync engine needs from the remote store.
type Client interface {
	Configured() bool
	Endpoint() string
	SelectAll(ctx context.Context, table string) ([]json.RawMessage, error)
	Upsert(ctx context.Context, table, id string, doc json.RawMessage) error
	DeleteByID(ctx context.Context, table, id string) error
}

// MySQLClient implements Client on top of a MySQL connection pool. A
// client with a nil pool is unconfigured.
type MySQLClient struct {
	db       *sql.DB
	endpoint string
	timeout  time.Duration
}

// NewMySQLClient wraps db. endpoint is only used for diagnostics and must
// not carry credentials.
func NewMySQLClient(db *sql.DB, endpoint string, timeout time.Duration) *MySQLClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MySQLClient{db: db, endpoint: endpoint, timeout: timeout}
}

// Unconfigured returns a client that refuses every operation.
func Unconfigured() *MySQLClient {
	return &MySQLClient{timeout: DefaultTimeout}
}

// Configured reports whether a connection pool is present.
func (c *MySQLClient) Configured() bool { return c.db != nil }

// Endpoint describes where the client points, or NOT CONFIGURED.
func (c *MySQLClient) Endpoint() string {
	if c.db == nil || c.endpoint == "" {
		return "NOT CONFIGURED"
	}
	return c.endpoint
}

func (c *MySQLClient) check(table string) error {
	if c.db == nil {
		return ErrNotConfigured
	}
	if !tableName.MatchString(table) {
		return errors.Wrapf(ErrInvalidTable, "%q", table)
	}
	return nil
}

// SelectAll returns every document of table in insertion order.
func (c *MySQLClient) SelectAll(ctx context.Context, table string) ([]json.RawMessage, error) {
	if err := c.check(table); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := fmt.Sprintf("SELECT doc FROM `%s` ORDER BY seq", table)
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrapf(err, "select %s", table)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.Wrapf(err, "scan %s", table)
		}
		out = append(out, json.RawMessage(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "iterate %s", table)
	}
	return out, nil
}

// Upsert inserts doc under id or replaces the existing document. The row
// keeps its original position in the insertion order.
func (c *MySQLClient) Upsert(ctx context.Context, table, id string, doc json.RawMessage) error {
	if err := c.check(table); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := fmt.Sprintf("INSERT INTO `%s` (id, doc) VALUES (?, ?) ON DUPLICATE KEY UPDATE doc = VALUES(doc)", table)
	if _, err := c.db.ExecContext(ctx, q, id, []byte(doc)); err != nil {
		return errors.Wrapf(err, "upsert %s/%s", table, id)
	}
	return nil
}

// DeleteByID removes the row with the given id. Deleting a missing id is
// not an error.
func (c *MySQLClient) DeleteByID(ctx context.Context, table, id string) error {
	if err := c.check(table); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := fmt.Sprintf("DELETE FROM `%s` WHERE id = ?", table)
	if _, err := c.db.ExecContext(ctx, q, id); err != nil {
		return errors.Wrapf(err, "delete %s/%s", table, id)
	}
	return nil
}

// EnsureTables creates the document tables that do not exist yet.
func (c *MySQLClient) EnsureTables(ctx context.Context, tables ...string) error {
	for _, t := range tables {
		if err := c.check(t); err != nil {
			return err
		}
		q := fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
			"seq BIGINT UNSIGNED NOT NULL AUTO_INCREMENT, "+
			"id VARCHAR(191) NOT NULL, "+
			"doc JSON NOT NULL, "+
			"created_at TIMESTAMP(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3), "+
			"updated_at TIMESTAMP(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3), "+
			"PRIMARY KEY (id), UNIQUE KEY uk_%s_seq (seq)"+
			") CHARACTER SET utf8mb4", t, t)
		if _, err := c.db.ExecContext(ctx, q); err != nil {
			return errors.Wrapf(err, "create table %s", t)
		}
	}
	return nil
}
