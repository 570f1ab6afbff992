package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestEnsureSchemaExecutesAllStatements(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer conn.Close()

	for range schema {
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := EnsureSchema(context.Background(), conn, DriverPostgres); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEnsureSchemaStopsOnError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer conn.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS customers").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS materials").WillReturnError(errors.New("boom"))

	err = EnsureSchema(context.Background(), conn, DriverSQLite)
	if err == nil || !strings.Contains(err.Error(), "schema statement 2") {
		t.Fatalf("expected failure on statement 2, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestStatementsDialects(t *testing.T) {
	pg, err := Statements(DriverPostgres)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(pg[0], "BIGSERIAL PRIMARY KEY") {
		t.Errorf("expected postgres serial ids, got %q", pg[0])
	}

	lite, err := Statements(DriverSQLite)
	if err != nil {
		t.Fatal(err)
	}
	for _, stmt := range lite {
		if strings.Contains(stmt, "{{") {
			t.Errorf("unreplaced placeholder in %q", stmt)
		}
	}

	if _, err := Statements("mysql"); err == nil {
		t.Error("expected error for unsupported dialect")
	}
}

func TestOpenSQLiteMemory(t *testing.T) {
	conn, err := Open(context.Background(), Options{Driver: DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	var n int
	if err := conn.Get(&n, `SELECT COUNT(*) FROM quotes`); err != nil {
		t.Fatalf("query quotes: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty quotes table, got %d", n)
	}
}
