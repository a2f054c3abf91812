package uow

import (
	"github.com/jackc/pgx/v5"
)

// Transaction набор репозиториев одной pgx транзакции. Используется только внутри UnitOfWork.Do
// и не предназначен для конкурентного доступа.
type Transaction struct {
	factories map[RepositoryName]RepositoryFactory
	opened    map[RepositoryName]Repository
	tx        pgx.Tx
}

func NewTransaction(tx pgx.Tx, factories map[RepositoryName]RepositoryFactory) *Transaction {
	return &Transaction{
		factories: factories,
		opened:    make(map[RepositoryName]Repository, len(factories)),
		tx:        tx,
	}
}

// Get возвращает репозиторий, привязанный к текущей транзакции, или ошибку ErrRepositoryNotRegistered.
// Репозиторий создается при первом обращении, повторные вызовы с тем же name возвращают тот же экземпляр.
func (t *Transaction) Get(name RepositoryName) (Repository, error) {
	if repo, ok := t.opened[name]; ok {
		return repo, nil
	}
	factory, ok := t.factories[name]
	if !ok {
		return nil, ErrRepositoryNotRegistered
	}
	repo := factory(t.tx)
	t.opened[name] = repo
	return repo, nil
}

// GetAs достает репозиторий name из транзакции и приводит его к T.
// Ошибки: ErrRepositoryNotRegistered, ErrInvalidRepositoryType.
func GetAs[T any](t TX, name RepositoryName) (T, error) {
	var res T
	repo, err := t.Get(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	res, ok := repo.(T)
	if !ok {
		return res, ErrInvalidRepositoryType
	}
	return res, nil
}
