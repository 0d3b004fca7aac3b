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

// Tabela de cada recorte de detalhe. Cada uma tem a mesma forma: métricas
// semanais por (conta, campanha, semana, valor da dimensão) e uma referência
// opcional à linha pai.
var detailTables = map[domain.StatSlice]string{
	domain.SlicePlacement:   "weekly_placement_stats",
	domain.SliceSearchQuery: "weekly_search_query_stats",
	domain.SliceGeo:         "weekly_geo_stats",
	domain.SliceDevice:      "weekly_device_stats",
	domain.SliceDemographic: "weekly_demographic_stats",
}

// DetailTableFor devolve a tabela de um recorte de detalhe.
func DetailTableFor(slice domain.StatSlice) (string, error) {
	table, ok := detailTables[slice]
	if !ok {
		return "", fmt.Errorf("recorte %q não possui tabela de detalhe", slice)
	}
	return table, nil
}

type DetailStatRepository interface {
	UpsertBatch(slice domain.StatSlice, stats []*domain.WeeklyDetailStat) (int64, error)
	GetByAccountAndRange(accountID string, slice domain.StatSlice, from, to time.Time) ([]*domain.WeeklyDetailStat, error)
}

type detailStatRepository struct {
	conn *postgres.Connection
}

func NewDetailStatRepository(conn *postgres.Connection) DetailStatRepository {
	return &detailStatRepository{
		conn: conn,
	}
}

// UpsertBatch grava as linhas filhas de um recorte em lote. A chave única é
// (conta, campanha, semana, valor da dimensão); conflito atualiza as
// métricas e a referência ao pai. Falha devolve StorageError.
func (r *detailStatRepository) UpsertBatch(slice domain.StatSlice, stats []*domain.WeeklyDetailStat) (int64, error) {
	table, err := DetailTableFor(slice)
	if err != nil {
		return 0, err
	}

	if len(stats) == 0 {
		return 0, nil
	}

	var total int64

	err = r.conn.RunInTransaction(context.Background(), func(tx *sql.Tx) error {
		for start := 0; start < len(stats); start += upsertChunkSize {
			end := start + upsertChunkSize
			if end > len(stats) {
				end = len(stats)
			}

			query := squirrel.StatementBuilder.
				Insert(table).
				Columns(
					"account_id",
					"campaign_id",
					"campaign_stat_id",
					"week_start",
					"dimension_value",
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
					stat.CampaignStatID,
					stat.WeekStart.Format(weekKeyLayout),
					stat.DimensionValue,
					stat.Impressions,
					stat.Clicks,
					stat.Cost,
					stat.Conversions,
				)
			}

			query = query.Suffix(`
				ON CONFLICT (account_id, campaign_id, week_start, dimension_value) DO UPDATE SET
					campaign_stat_id = EXCLUDED.campaign_stat_id,
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
		return 0, NewStorageError(fmt.Sprintf("upsert de estatísticas de %s", slice), err)
	}

	return total, nil
}

func (r *detailStatRepository) GetByAccountAndRange(accountID string, slice domain.StatSlice, from, to time.Time) ([]*domain.WeeklyDetailStat, error) {
	table, err := DetailTableFor(slice)
	if err != nil {
		return nil, err
	}

	query, args, err := squirrel.
		Select("id, account_id, campaign_id, campaign_stat_id, week_start, dimension_value, impressions, clicks, cost, conversions, created_at, updated_at").
		From(table).
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.GtOrEq{"week_start": from.Format(weekKeyLayout)}).
		Where(squirrel.LtOrEq{"week_start": to.Format(weekKeyLayout)}).
		OrderBy("week_start ASC", "campaign_id ASC", "dimension_value ASC").
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

	stats := make([]*domain.WeeklyDetailStat, 0)
	for rows.Next() {
		stat := &domain.WeeklyDetailStat{Slice: slice}
		err := rows.Scan(
			&stat.ID,
			&stat.AccountID,
			&stat.CampaignID,
			&stat.CampaignStatID,
			&stat.WeekStart,
			&stat.DimensionValue,
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
