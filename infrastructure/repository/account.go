// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/direct-insights-api/infrastructure/database/postgres"
	"github.com/vfg2006/direct-insights-api/internal/domain"
)

const (
	accountsTable = "accounts a"
)

type AccountRepository interface {
	GetByID(id string) (*domain.Account, error)
	GetByYandexLogin(yandexLogin string) (*domain.Account, error)
	List() ([]*domain.AccountResponse, error)
	ListActive() ([]*domain.Account, error)
	SaveOrUpdate(account *domain.Account) error
	UpdateStatus(id string, status domain.AccountStatus) error
}

type accountRepository struct {
	conn *postgres.Connection
}

func NewAccountRepository(conn *postgres.Connection) AccountRepository {
	return &accountRepository{
		conn: conn,
	}
}

func (r *accountRepository) GetByID(id string) (*domain.Account, error) {
	query, args, err := squirrel.
		Select("a.id, a.client_id, a.yandex_login, a.name, a.nickname, a.status, a.created_at, a.updated_at").
		From(accountsTable).
		Where(squirrel.Eq{"a.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	account, err := r.scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear conta: %w", err)
	}

	return account, nil
}

func (r *accountRepository) GetByYandexLogin(yandexLogin string) (*domain.Account, error) {
	query, args, err := squirrel.
		Select("a.id, a.client_id, a.yandex_login, a.name, a.nickname, a.status, a.created_at, a.updated_at").
		From(accountsTable).
		Where(squirrel.Eq{"a.yandex_login": yandexLogin}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	account, err := r.scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear conta: %w", err)
	}

	return account, nil
}

// List retorna todas as contas com a indicação de token cadastrado,
// para a tela de administração.
func (r *accountRepository) List() ([]*domain.AccountResponse, error) {
	query, args, err := squirrel.
		Select("a.id, a.yandex_login, a.name, a.nickname, a.status, t.id IS NOT NULL AS has_token").
		From(accountsTable).
		LeftJoin("tokens t ON t.yandex_login = a.yandex_login").
		OrderBy("a.name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	accounts := make([]*domain.AccountResponse, 0)
	for rows.Next() {
		account := &domain.AccountResponse{}
		err := rows.Scan(
			&account.ID,
			&account.YandexLogin,
			&account.Name,
			&account.Nickname,
			&account.Status,
			&account.HasToken,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear conta: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return accounts, nil
}

// ListActive retorna as contas ativas, na ordem em que a sincronização
// deve processá-las.
func (r *accountRepository) ListActive() ([]*domain.Account, error) {
	query, args, err := squirrel.
		Select("a.id, a.client_id, a.yandex_login, a.name, a.nickname, a.status, a.created_at, a.updated_at").
		From(accountsTable).
		Where(squirrel.Eq{"a.status": domain.AccountStatusActive}).
		OrderBy("a.name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := r.scanAccountRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear conta: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return accounts, nil
}

func (r *accountRepository) SaveOrUpdate(account *domain.Account) error {
	query, args, err := squirrel.StatementBuilder.
		Insert("accounts").
		Columns("id", "client_id", "yandex_login", "name", "nickname", "status").
		Values(account.ID, account.ClientID, account.YandexLogin, account.Name, account.Nickname, account.Status).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				client_id = EXCLUDED.client_id,
				yandex_login = EXCLUDED.yandex_login,
				name = EXCLUDED.name,
				nickname = EXCLUDED.nickname,
				status = EXCLUDED.status,
				updated_at = CURRENT_TIMESTAMP
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de inserção: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar query de inserção: %w", err)
	}

	return nil
}

func (r *accountRepository) UpdateStatus(id string, status domain.AccountStatus) error {
	query, args, err := squirrel.StatementBuilder.
		Update("accounts").
		Set("status", status).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de atualização: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar query de atualização: %w", err)
	}

	return nil
}

func (r *accountRepository) scanAccount(row *sql.Row) (*domain.Account, error) {
	account := &domain.Account{}

	err := row.Scan(
		&account.ID,
		&account.ClientID,
		&account.YandexLogin,
		&account.Name,
		&account.Nickname,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (r *accountRepository) scanAccountRows(rows *sql.Rows) (*domain.Account, error) {
	account := &domain.Account{}

	err := rows.Scan(
		&account.ID,
		&account.ClientID,
		&account.YandexLogin,
		&account.Name,
		&account.Nickname,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return account, nil
}
