package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/direct-insights-api/infrastructure/database/postgres"
	"github.com/vfg2006/direct-insights-api/internal/domain"
)

const (
	campaignStatsTable = "weekly_campaign_stats wcs"

	// Limite de linhas por comando de upsert, para o número de
	// placeholders não explodir em relatórios grandes.
	upsertChunkSize = 500
)

const weekKeyLayout = "2006-01-02"

// StatKey identifica uma linha pai dentro de uma conta: campanha + início
// de semana formatado em ISO.
type StatKey struct {
	CampaignID int64
	WeekStart  string
}

// NewStatKey monta a chave de lookup de uma linha pai.
func NewStatKey(campaignID int64, weekStart time.Time) StatKey {
	return StatKey{
		CampaignID: campaignID,
		WeekStart:  weekStart.Format(weekKeyLayout),
	}
}

type CampaignStatRepository interface {
	UpsertBatch(stats []*domain.WeeklyCampaignStat) (int64, error)
	LookupIDs(accountID string, weekStarts []time.Time) (map[StatKey]int64, error)
	ListCampaignIDs(accountID string, from, to time.Time) ([]int64, error)
	GetByAccountAndRange(accountID string, from, to time.Time) ([]*domain.WeeklyCampaignStat, error)
}

type campaignStatRepository struct {
	conn *postgres.Connection
}

func NewCampaignStatRepository(conn *postgres.Connection) CampaignStatRepository {
	return &campaignStatRepository{
		conn: conn,
	}
}

// UpsertBatch grava as linhas pai em lote. Conflito na chave única
// (conta, campanha, semana) atualiza as métricas em vez de duplicar.
// O lote inteiro roda em uma transação; falha devolve StorageError.
func (r *campaignStatRepository) UpsertBatch(stats []*domain.WeeklyCampaignStat) (int64, error) {
	if len(stats) == 0 {
		return 0, nil
	}

	var total int64

	err := r.conn.RunInTransaction(context.Background(), func(tx *sql.Tx) error {
		for start := 0; start < len(stats); start += upsertChunkSize {
			end := start + upsertChunkSize
			if end > len(stats) {
				end = len(stats)
			}

			query := squirrel.StatementBuilder.
				Insert("weekly_campaign_stats").
				Columns(
					"account_id",
					"campaign_id",
					"campaign_name",
					"campaign_type",
					"week_start",
					"impressions",
					"clicks",
					"cost",
					"conversions",
				).
				PlaceholderFormat(squirrel.Dollar)

			for _, stat := range stats[start:end] {
				query = query.Values(
					stat.AccountID,
					stat.CampaignID,
					stat.CampaignName,
					stat.CampaignType,
					stat.WeekStart.Format(weekKeyLayout),
					stat.Impressions,
					stat.Clicks,
					stat.Cost,
					stat.Conversions,
				)
			}

			query = query.Suffix(`
				ON CONFLICT (account_id, campaign_id, week_start) DO UPDATE SET
					campaign_name = EXCLUDED.campaign_name,
					campaign_type = EXCLUDED.campaign_type,
					impressions = EXCLUDED.impressions,
					clicks = EXCLUDED.clicks,
					cost = EXCLUDED.cost,
					conversions = EXCLUDED.conversions,
					updated_at = CURRENT_TIMESTAMP
			`)

			sqlQuery, args, err := query.ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir query de inserção: %w", err)
			}

			result, err := tx.Exec(sqlQuery, args...)
			if err != nil {
				return err
			}

			affected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			total += affected
		}

		return nil
	})
	if err != nil {
		return 0, NewStorageError("upsert de estatísticas de campanha", err)
	}

	return total, nil
}

// LookupIDs devolve o mapa (campanha, semana) -> id das linhas pai de uma
// conta nas semanas informadas, usado para resolver a referência das linhas
// filhas antes da gravação.
func (r *campaignStatRepository) LookupIDs(accountID string, weekStarts []time.Time) (map[StatKey]int64, error) {
	ids := make(map[StatKey]int64)
	if len(weekStarts) == 0 {
		return ids, nil
	}

	weeks := make([]string, 0, len(weekStarts))
	for _, week := range weekStarts {
		weeks = append(weeks, week.Format(weekKeyLayout))
	}

	query, args, err := squirrel.
		Select("wcs.id, wcs.campaign_id, wcs.week_start").
		From(campaignStatsTable).
		Where(squirrel.Eq{"wcs.account_id": accountID, "wcs.week_start": weeks}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, NewStorageError("lookup de linhas pai", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var campaignID int64
		var weekStart time.Time
		if err := rows.Scan(&id, &campaignID, &weekStart); err != nil {
			return nil, fmt.Errorf("erro ao escanear lookup: %w", err)
		}
		ids[NewStatKey(campaignID, weekStart)] = id
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return ids, nil
}

// ListCampaignIDs devolve as campanhas já conhecidas de uma conta na janela,
// que delimitam o trabalho da fase 2.
func (r *campaignStatRepository) ListCampaignIDs(accountID string, from, to time.Time) ([]int64, error) {
	query, args, err := squirrel.
		Select("DISTINCT wcs.campaign_id").
		From(campaignStatsTable).
		Where(squirrel.Eq{"wcs.account_id": accountID}).
		Where(squirrel.GtOrEq{"wcs.week_start": from.Format(weekKeyLayout)}).
		Where(squirrel.LtOrEq{"wcs.week_start": to.Format(weekKeyLayout)}).
		OrderBy("wcs.campaign_id ASC").
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

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("erro ao escanear campanha: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return ids, nil
}

func (r *campaignStatRepository) GetByAccountAndRange(accountID string, from, to time.Time) ([]*domain.WeeklyCampaignStat, error) {
	query, args, err := squirrel.
		Select("wcs.id, wcs.account_id, wcs.campaign_id, wcs.campaign_name, wcs.campaign_type, wcs.week_start, wcs.impressions, wcs.clicks, wcs.cost, wcs.conversions, wcs.created_at, wcs.updated_at").
		From(campaignStatsTable).
		Where(squirrel.Eq{"wcs.account_id": accountID}).
		Where(squirrel.GtOrEq{"wcs.week_start": from.Format(weekKeyLayout)}).
		Where(squirrel.LtOrEq{"wcs.week_start": to.Format(weekKeyLayout)}).
		OrderBy("wcs.week_start ASC", "wcs.campaign_name ASC").
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

	stats := make([]*domain.WeeklyCampaignStat, 0)
	for rows.Next() {
		stat := &domain.WeeklyCampaignStat{}
		err := rows.Scan(
			&stat.ID,
			&stat.AccountID,
			&stat.CampaignID,
			&stat.CampaignName,
			&stat.CampaignType,
			&stat.WeekStart,
			&stat.Impressions,
			&stat.Clicks,
			&stat.Cost,
			&stat.Conversions,
			&stat.CreatedAt,
			&stat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear estatística: %w", err)
		}
		stats = append(stats, stat)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return stats, nil
}
