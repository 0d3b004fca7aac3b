package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/direct-insights-api/infrastructure/database/postgres"
	"github.com/vfg2006/direct-insights-api/internal/domain"
)

const (
	tokensTable = "tokens t"
)

type TokenRepository interface {
	GetByLogin(yandexLogin string) (*domain.Token, error)
	SaveOrUpdate(token *domain.Token) error
	DeleteByLogin(yandexLogin string) error
}

type tokenRepository struct {
	conn *postgres.Connection
}

func NewTokenRepository(conn *postgres.Connection) TokenRepository {
	return &tokenRepository{
		conn: conn,
	}
}

func (r *tokenRepository) GetByLogin(yandexLogin string) (*domain.Token, error) {
	query, args, err := squirrel.
		Select("t.id, t.yandex_login, t.access_token, t.refresh_token, t.expires_at, t.updated_at").
		From(tokensTable).
		Where(squirrel.Eq{"t.yandex_login": yandexLogin}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	token := &domain.Token{}
	row := r.conn.QueryRow(query, args...)
	err = row.Scan(
		&token.ID,
		&token.YandexLogin,
		&token.AccessToken,
		&token.RefreshToken,
		&token.ExpiresAt,
		&token.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear token: %w", err)
	}

	return token, nil
}

func (r *tokenRepository) SaveOrUpdate(token *domain.Token) error {
	query, args, err := squirrel.StatementBuilder.
		Insert("tokens").
		Columns("yandex_login", "access_token", "refresh_token", "expires_at").
		Values(token.YandexLogin, token.AccessToken, token.RefreshToken, token.ExpiresAt).
		Suffix(`
			ON CONFLICT (yandex_login) DO UPDATE SET
				access_token = EXCLUDED.access_token,
				refresh_token = EXCLUDED.refresh_token,
				expires_at = EXCLUDED.expires_at,
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

func (r *tokenRepository) DeleteByLogin(yandexLogin string) error {
	query, args, err := squirrel.StatementBuilder.
		Delete("tokens").
		Where(squirrel.Eq{"yandex_login": yandexLogin}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de remoção: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar query de remoção: %w", err)
	}

	return nil
}
