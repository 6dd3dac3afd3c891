package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"loan-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// MemberRepo implements ports.MemberRepository.
type MemberRepo struct {
	pool Pool
}

// NewMemberRepo creates a new MemberRepo.
func NewMemberRepo(pool Pool) *MemberRepo {
	return &MemberRepo{pool: pool}
}

// Create inserts a new member.
func (r *MemberRepo) Create(ctx context.Context, m *domain.Member) error {
	accounts, err := json.Marshal(m.Accounts)
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}

	query := `INSERT INTO members (id, email, name, balance, investment, accounts, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8)`

	_, err = r.pool.Exec(ctx, query,
		m.ID, m.Email, m.Name, money(m.Balance), money(m.Investment),
		accounts, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// GetByID fetches a member by id.
func (r *MemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := `SELECT id, email, name, balance::text, investment::text, accounts, created_at, updated_at
		FROM members WHERE id = $1`

	m := &domain.Member{}
	var balance, investment string
	var accounts []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Email, &m.Name, &balance, &investment,
		&accounts, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member by id: %w", err)
	}

	var n numDecoder
	n.dec(&m.Balance, balance)
	n.dec(&m.Investment, investment)
	if n.err != nil {
		return nil, n.err
	}
	if len(accounts) > 0 {
		if err := json.Unmarshal(accounts, &m.Accounts); err != nil {
			return nil, fmt.Errorf("decode member accounts: %w", err)
		}
	}
	return m, nil
}

// AdjustBalance adds delta to the member's balance unless effectKey was
// already applied. The member row is locked for the duration.
func (r *MemberRepo) AdjustBalance(ctx context.Context, memberID, effectKey string, delta decimal.Decimal) (bool, error) {
	applied := false
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx, `SELECT balance::text FROM members WHERE id = $1 FOR UPDATE`, memberID).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("member not found: %s", memberID)
			}
			return fmt.Errorf("lock member: %w", err)
		}

		ok, err := claimEffect(ctx, tx, effectKey)
		if err != nil || !ok {
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE members SET balance = balance + $1::numeric, updated_at = NOW() WHERE id = $2`,
			money(delta), memberID,
		)
		if err != nil {
			return fmt.Errorf("update member balance: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("member not found: %s", memberID)
		}
		applied = true
		return nil
	})
	return applied, err
}

// claimEffect records effectKey, returning false if it was already present.
func claimEffect(ctx context.Context, tx pgx.Tx, effectKey string) (bool, error) {
	tag, err := tx.Exec(ctx,
		`INSERT INTO ledger_effects (effect_key, applied_at) VALUES ($1, NOW()) ON CONFLICT (effect_key) DO NOTHING`,
		effectKey,
	)
	if err != nil {
		return false, fmt.Errorf("claim effect %s: %w", effectKey, err)
	}
	return tag.RowsAffected() == 1, nil
}
