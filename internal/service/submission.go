package service

import (
	"context"
	"fmt"
	"time"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
	"loan-ledger/pkg/apperror"

	"github.com/shopspring/decimal"
)

// txnIDFunc draws a candidate transaction id.
type txnIDFunc func() (string, error)

// allocateTxnID calls create with fresh ids until one is stored. onCollision,
// when set, runs after each rejected id and may turn the collision into a
// business error.
func allocateTxnID(attempts int, gen txnIDFunc, create func(id string) (bool, error), onCollision func() error) (string, error) {
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		id, err := gen()
		if err != nil {
			return "", apperror.InternalError(err)
		}
		created, err := create(id)
		if err != nil {
			return "", apperror.InternalError(fmt.Errorf("create pending %s: %w", id, err))
		}
		if created {
			return id, nil
		}
		if onCollision != nil {
			if err := onCollision(); err != nil {
				return "", err
			}
		}
	}
	return "", apperror.ErrStorageFailure(0, "txn id allocation",
		fmt.Errorf("no unused transaction id after %d attempts", attempts))
}

func loadMember(ctx context.Context, repo ports.MemberRepository, memberID string) (*domain.Member, error) {
	member, err := repo.GetByID(ctx, memberID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load member %s: %w", memberID, err))
	}
	if member == nil {
		return nil, apperror.ErrMemberNotFound(memberID)
	}
	return member, nil
}

// accountFor validates the method and reads the saved account. Accounts are
// never taken from the request.
func accountFor(member *domain.Member, method domain.DisbursementMethod) (domain.DisbursementAccount, error) {
	if !method.IsValid() {
		return domain.DisbursementAccount{}, apperror.Validation("method must be one of bank, e-wallet, cash")
	}
	if !method.RequiresAccount() {
		return domain.DisbursementAccount{}, nil
	}
	acct, ok := member.AccountFor(method)
	if !ok {
		return domain.DisbursementAccount{}, apperror.Validation(fmt.Sprintf("no saved %s account on file", method))
	}
	return acct, nil
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperror.Validation("amount must be greater than zero")
	}
	return nil
}

func pendingEntry(typ domain.TransactionType, memberID, txnID string, amount decimal.Decimal, desc string, at time.Time) *domain.TransactionLogEntry {
	return &domain.TransactionLogEntry{
		Type:        typ,
		MemberID:    memberID,
		TxnID:       txnID,
		Amount:      amount,
		Status:      domain.EntryStatusPending,
		Description: desc,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}
