package uow

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/suite"
)

// fakeTx реализует только те методы pgx.Tx, которые вызывает UnitOfWork.
type fakeTx struct {
	pgx.Tx
	commitErr  error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(context.Context) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if f.committed || f.rolledBack {
		return pgx.ErrTxClosed
	}
	f.rolledBack = true
	return nil
}

type fakePool struct {
	DBTX
	tx       *fakeTx
	beginErr error
}

func (f *fakePool) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

type fakeRepo struct {
	conn DBTX
}

type UnitOfWorkTestSuite struct {
	suite.Suite
	pool *fakePool
	uow  *UnitOfWork
}

func TestUnitOfWorkSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkTestSuite))
}

func (s *UnitOfWorkTestSuite) SetupTest() {
	s.pool = &fakePool{tx: new(fakeTx)}
	s.uow = NewUnitOfWork(s.pool)
	s.Require().NoError(s.uow.Register("fake", func(conn DBTX) Repository {
		return &fakeRepo{conn: conn}
	}))
}

func (s *UnitOfWorkTestSuite) TestRegister() {
	s.Require().ErrorIs(s.uow.Register("fake", func(DBTX) Repository { return nil }), ErrRepositoryAlreadyRegistered)
	s.Require().ErrorIs(s.uow.Register("nil", nil), ErrNilFactory)
}

func (s *UnitOfWorkTestSuite) TestGetRepositoryAs() {
	repo, err := GetRepositoryAs[*fakeRepo](s.uow, "fake")
	s.Require().NoError(err)
	s.Same(s.pool, repo.conn)

	_, err = GetRepositoryAs[*fakeRepo](s.uow, "missing")
	s.Require().ErrorIs(err, ErrRepositoryNotRegistered)

	_, err = GetRepositoryAs[string](s.uow, "fake")
	s.Require().ErrorIs(err, ErrInvalidRepositoryType)
}

func (s *UnitOfWorkTestSuite) TestDoCommit() {
	err := s.uow.Do(s.T().Context(), func(_ context.Context, tx TX) error {
		repo, repoErr := GetAs[*fakeRepo](tx, "fake")
		s.Require().NoError(repoErr)
		// репозиторий внутри транзакции должен работать поверх pgx.Tx, а не пула.
		s.Same(s.pool.tx, repo.conn)
		return nil
	})

	s.Require().NoError(err)
	s.True(s.pool.tx.committed)
	s.False(s.pool.tx.rolledBack)
}

func (s *UnitOfWorkTestSuite) TestDoRollback() {
	fnErr := errors.New("business rule")

	err := s.uow.Do(s.T().Context(), func(context.Context, TX) error {
		return fnErr
	})

	s.Require().ErrorIs(err, fnErr)
	s.False(s.pool.tx.committed)
	s.True(s.pool.tx.rolledBack)
}

func (s *UnitOfWorkTestSuite) TestDoPanicRollsBack() {
	s.Panics(func() {
		_ = s.uow.Do(s.T().Context(), func(context.Context, TX) error {
			panic("boom")
		})
	})
	s.True(s.pool.tx.rolledBack)
}

func (s *UnitOfWorkTestSuite) TestDoBeginAndCommitErrors() {
	s.pool.beginErr = errors.New("no connection")
	err := s.uow.Do(s.T().Context(), func(context.Context, TX) error {
		s.Fail("fn must not be called")
		return nil
	})
	s.Require().ErrorIs(err, s.pool.beginErr)

	s.pool.beginErr = nil
	s.pool.tx = &fakeTx{commitErr: errors.New("serialization failure")}
	err = s.uow.Do(s.T().Context(), func(context.Context, TX) error { return nil })
	s.Require().ErrorIs(err, s.pool.tx.commitErr)
	s.True(s.pool.tx.rolledBack)
}

func (s *UnitOfWorkTestSuite) TestGetAsUnknownRepository() {
	err := s.uow.Do(s.T().Context(), func(_ context.Context, tx TX) error {
		_, repoErr := GetAs[*fakeRepo](tx, "missing")
		return repoErr
	})
	s.Require().ErrorIs(err, ErrRepositoryNotRegistered)
}

func (s *UnitOfWorkTestSuite) TestTransactionReusesRepository() {
	err := s.uow.Do(s.T().Context(), func(_ context.Context, tx TX) error {
		first, err := GetAs[*fakeRepo](tx, "fake")
		s.Require().NoError(err)
		second, err := GetAs[*fakeRepo](tx, "fake")
		s.Require().NoError(err)

		s.Same(first, second)
		s.Equal(DBTX(s.pool.tx), first.conn)

		_, typeErr := GetAs[*fakeTx](tx, "fake")
		s.Require().ErrorIs(typeErr, ErrInvalidRepositoryType)
		return nil
	})
	s.Require().NoError(err)
}
