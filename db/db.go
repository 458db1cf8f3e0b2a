package db

import (
	"context"
	"fmt"
	"strings"
)

type DBType string

const (
	Postgres DBType = "postgres"
	Mongo    DBType = "mongo"
)

// ParseDBType accepts the DB_TYPE values the server understands.
func ParseDBType(s string) (DBType, error) {
	switch DBType(strings.ToLower(strings.TrimSpace(s))) {
	case Postgres:
		return Postgres, nil
	case Mongo:
		return Mongo, nil
	default:
		return "", fmt.Errorf("DB_TYPE %q not supported", s)
	}
}

type DB interface {
	Connect() error
	Disconnect() error
	GetContext() context.Context
}
