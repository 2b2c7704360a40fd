package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeIdempotency, status: http.StatusConflict, publicMsg: "idempotency key reused", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing quantity")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing quantity" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "quantity"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeInternal, cause, "db: insert product")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeInternal {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsAndCodeOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNotFound, "no row"))
	if got := As(err); got == nil || got.Code() != CodeNotFound {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
	if CodeOf(stdErrors.New("plain")) != CodeInternal {
		t.Fatalf("untyped errors should map to internal")
	}
	if CodeOf(err) != CodeNotFound {
		t.Fatalf("expected not found code")
	}
}

func TestCodePublic(t *testing.T) {
	if !CodeValidation.Public() {
		t.Fatal("validation messages should be public")
	}
	if CodeInternal.Public() {
		t.Fatal("internal messages must stay private")
	}
}

func TestDumpCapturesDriverErrors(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "purchase_orders_product_id_fkey", TableName: "purchase_orders"}
	d := Dump(Wrap(CodeInternal, pgErr, "db: insert purchase order"))
	if d.PGCode != "23503" || d.PGConstraint != "purchase_orders_product_id_fkey" {
		t.Fatalf("unexpected pg dump %+v", d)
	}
	if d.Code != CodeInternal {
		t.Fatalf("expected internal code in dump, got %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", d.Chain)
	}

	liteErr := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}
	d = Dump(fmt.Errorf("insert: %w", liteErr))
	if d.SQLiteCode != int(sqlite3.ErrConstraint) {
		t.Fatalf("unexpected sqlite code %d", d.SQLiteCode)
	}
	if _, ok := d.Fields()["sqlite_extended_code"]; !ok {
		t.Fatalf("expected sqlite fields in %v", d.Fields())
	}
	if _, ok := d.Fields()["pg_code"]; ok {
		t.Fatalf("pg fields should be omitted for sqlite errors")
	}
}

func TestDumpCapturesPQErrors(t *testing.T) {
	pqErr := &pq.Error{Code: "23503", Constraint: "purchase_orders_vendor_id_fkey", Table: "purchase_orders", Column: "vendor_id"}
	d := Dump(fmt.Errorf("insert: %w", pqErr))
	if d.PGCode != "23503" || d.PGColumn != "vendor_id" {
		t.Fatalf("unexpected pq dump %+v", d)
	}
	if d.Fields()["pg_table"] != "purchase_orders" {
		t.Fatalf("expected pg_table field in %v", d.Fields())
	}
}
