package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSNFromParts(t *testing.T) {
	dsn := DSN(ClientConfig{
		Host:     "db.internal",
		Port:     5433,
		Database: "predarb",
		User:     "scanner",
		Password: "pw",
		SSLMode:  "require",
	})
	assert.Equal(t, "postgres://scanner:pw@db.internal:5433/predarb?sslmode=require", dsn)
}

func TestDSNDefaults(t *testing.T) {
	dsn := DSN(ClientConfig{Host: "localhost", Database: "predarb", User: "postgres"})
	assert.Equal(t, "postgres://postgres:@localhost:5432/predarb?sslmode=disable", dsn)
}

func TestDSNPassthrough(t *testing.T) {
	raw := "postgres://u:p@h:5432/d"
	assert.Equal(t, raw, DSN(ClientConfig{DSN: raw, Host: "ignored"}))
}
