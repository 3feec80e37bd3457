package medication

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthbridge/api/internal/platform/db"
)

type contextTx struct {
	pgx.Tx
	id int
}

func TestRepoConn_PrefersContextTransaction(t *testing.T) {
	repo := &courseRepoPG{pool: nil}
	tx := contextTx{id: 1}
	ctx := db.WithTx(context.Background(), tx)

	if got := repo.conn(ctx); got != tx {
		t.Errorf("expected the context transaction, got %v", got)
	}
}

func TestRepoConn_FallsBackToPool(t *testing.T) {
	repo := &medicationRepoPG{pool: nil}

	if _, ok := repo.conn(context.Background()).(*pgxpool.Pool); !ok {
		t.Error("expected the pool when no transaction is on the context")
	}
}
