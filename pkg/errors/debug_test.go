package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDumpExtractsPgxDiagnostics(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_product_channel_listing", TableName: "product_channel_listings"}
	err := Wrap(CodeDependency, fmt.Errorf("update: %w", pgErr), "db: bulk update discounted prices")

	d := Dump(err)
	if d.Code != CodeDependency || !d.Retryable {
		t.Fatalf("unexpected code metadata %+v", d)
	}
	if d.PGCode != "23505" || d.PGTable != "product_channel_listings" {
		t.Fatalf("pg fields missing: %+v", d)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries got %d", len(d.Chain))
	}

	fields := d.Fields()
	if fields["pg_constraint"] != "idx_product_channel_listing" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if _, ok := fields["pg_detail"]; ok {
		t.Fatalf("empty pg values should be omitted")
	}
}

func TestDumpExtractsPqDiagnostics(t *testing.T) {
	d := Dump(fmt.Errorf("query: %w", &pq.Error{Code: "40001", Table: "products"}))
	if d.PGCode != "40001" || d.PGTable != "products" {
		t.Fatalf("unexpected dump %+v", d)
	}
	if d.Code != "" {
		t.Fatalf("untyped error should have no code")
	}
}

func TestDumpPlainError(t *testing.T) {
	if got := Dump(nil); got.TopMessage != "" {
		t.Fatalf("expected empty dump for nil")
	}
	fields := Dump(stdErrors.New("boom")).Fields()
	if fields["error"] != "boom" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if _, ok := fields["error_chain"]; ok {
		t.Fatalf("single error chain should be omitted")
	}
}
