package postgres

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/internal/config"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Conn interface {
	Queryer
	Close() error
	Ping(context.Context) error
	RunInTransaction(context.Context, func(*sqlx.Tx) error) error
	Builder() squirrel.StatementBuilderType
}

type Connection struct {
	*sqlx.DB
	driver string
}

func NewConnection(
	ctx context.Context,
	cfg config.Database,
) (*Connection, error) {
	return Open(ctx, DriverFor(cfg.Driver, cfg.DSN), cfg.DSN)
}

// Open abre a conexão com o driver informado. SQLite é usado para desenvolvimento local e testes.
func Open(ctx context.Context, driver, dsn string) (*Connection, error) {
	if driver == DriverSQLite && !strings.Contains(dsn, "_time_format") {
		// datas gravadas em formato ordenável
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_time_format=sqlite"
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// sqlite em memória é por conexão
		db.SetMaxOpenConns(1)
		logrus.WithField("dsn", dsn).Info("Usando SQLite para desenvolvimento local")
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	conn := &Connection{DB: db, driver: driver}

	if driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return conn, nil
}

// DriverFor escolhe o driver pela configuração ou, na falta dela, pelo formato do DSN
func DriverFor(driver, dsn string) string {
	switch strings.ToLower(driver) {
	case DriverSQLite, "sqlite3":
		return DriverSQLite
	case DriverPostgres, "postgresql":
		return DriverPostgres
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

func (c *Connection) Driver() string {
	return c.driver
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Builder retorna o builder do squirrel com o placeholder do driver
func (c *Connection) Builder() squirrel.StatementBuilderType {
	if c.driver == DriverPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// RunInTransaction run a query in the transaction
func (c *Connection) RunInTransaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := c.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err := recover(); err != nil {
			_ = tx.Rollback()
			panic(err)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return rbErr
		}
		return err
	}

	return tx.Commit()
}
