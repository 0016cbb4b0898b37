package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"netquest-service/internal/domain"
)

// BankLoader loads question bank JSONB from Postgres.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context, bankID string) (domain.BankData, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE id=$1`, bankID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.BankData{}, domain.ErrBankNotFound
	}
	if err != nil {
		return domain.BankData{}, fmt.Errorf("load bank: %w", err)
	}
	var data domain.BankData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.BankData{}, fmt.Errorf("unmarshal bank: %w", err)
	}
	if data.ID == "" {
		data.ID = bankID
	}
	return data, nil
}
