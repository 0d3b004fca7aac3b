package domain

import (
	"fmt"
	"strings"
	"time"
)

// StatSlice identifica um recorte dimensional das estatísticas de campanha.
type StatSlice string

const (
	SliceCampaign    StatSlice = "campaign"
	SlicePlacement   StatSlice = "placement"
	SliceSearchQuery StatSlice = "search_query"
	SliceGeo         StatSlice = "geo"
	SliceDevice      StatSlice = "device"
	SliceDemographic StatSlice = "demographic"
)

// DetailSlices são os recortes filhos sincronizados na Fase 2, na ordem
// em que os relatórios são solicitados para cada conta.
func DetailSlices() []StatSlice {
	return []StatSlice{
		SlicePlacement,
		SliceSearchQuery,
		SliceGeo,
		SliceDevice,
		SliceDemographic,
	}
}

func ValidDetailSlice(s StatSlice) bool {
	for _, slice := range DetailSlices() {
		if s == slice {
			return true
		}
	}
	return false
}

// WeeklyCampaignStat é a linha pai: uma por (conta, campanha, início de semana).
// Reexecutar a sincronização para a mesma chave atualiza as métricas,
// nunca duplica a linha.
type WeeklyCampaignStat struct {
	ID           int64     `json:"id"`
	AccountID    string    `json:"account_id"`
	CampaignID   int64     `json:"campaign_id"`
	CampaignName string    `json:"campaign_name"`
	CampaignType string    `json:"campaign_type"`
	WeekStart    time.Time `json:"week_start"`
	Impressions  int64     `json:"impressions"`
	Clicks       int64     `json:"clicks"`
	Cost         float64   `json:"cost"`
	Conversions  int64     `json:"conversions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WeeklyDetailStat é uma linha filha de um recorte dimensional.
// CampaignStatID referencia a linha pai quando resolvida; fica nula quando
// o pai ainda não existe, nunca aponta para uma linha errada.
type WeeklyDetailStat struct {
	ID             int64     `json:"id"`
	AccountID      string    `json:"account_id"`
	CampaignID     int64     `json:"campaign_id"`
	CampaignStatID *int64    `json:"campaign_stat_id"`
	WeekStart      time.Time `json:"week_start"`
	Slice          StatSlice `json:"slice"`
	DimensionValue string    `json:"dimension_value"`
	Impressions    int64     `json:"impressions"`
	Clicks         int64     `json:"clicks"`
	Cost           float64   `json:"cost"`
	Conversions    int64     `json:"conversions"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SyncError atribui uma falha a (conta, fase, recorte) para o resumo da execução.
type SyncError struct {
	AccountID string    `json:"account_id"`
	Phase     int       `json:"phase"`
	Slice     StatSlice `json:"slice"`
	Message   string    `json:"message"`
}

// SyncRun é o registro em memória de uma execução do orquestrador.
// Nunca é persistido; vive apenas no resumo da execução.
type SyncRun struct {
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Phase1OK   bool        `json:"phase1_ok"`
	Phase2OK   bool        `json:"phase2_ok"`
	Phase1Rows int64       `json:"phase1_rows"`
	Phase2Rows int64       `json:"phase2_rows"`
	Errors     []SyncError `json:"errors"`
}

func (r *SyncRun) RecordError(accountID string, phase int, slice StatSlice, err error) {
	r.Errors = append(r.Errors, SyncError{
		AccountID: accountID,
		Phase:     phase,
		Slice:     slice,
		Message:   err.Error(),
	})
}

func (r *SyncRun) Success() bool {
	return r.Phase1OK && r.Phase2OK
}

// maxSummaryErrors limita a amostra de erros por fase no resumo,
// para que o texto continue legível mesmo em execuções muito ruins.
const maxSummaryErrors = 5

// Summary monta o texto legível da execução: linhas gravadas por fase e
// uma amostra limitada dos erros, atribuídos a (conta, fase, recorte).
func (r *SyncRun) Summary() string {
	var b strings.Builder

	status := "SUCESSO"
	if !r.Success() {
		status = "FALHA"
	}

	fmt.Fprintf(&b, "Sincronização %s em %s: ", status, r.FinishedAt.Sub(r.StartedAt).Round(time.Second))
	fmt.Fprintf(&b, "fase 1 gravou %d linha(s), fase 2 gravou %d linha(s), %d erro(s)",
		r.Phase1Rows, r.Phase2Rows, len(r.Errors))

	for phase := 1; phase <= 2; phase++ {
		shown := 0
		total := 0
		for _, e := range r.Errors {
			if e.Phase != phase {
				continue
			}
			total++
			if shown >= maxSummaryErrors {
				continue
			}
			fmt.Fprintf(&b, "\n  [fase %d] conta=%s recorte=%s: %s", e.Phase, e.AccountID, e.Slice, e.Message)
			shown++
		}
		if total > shown {
			fmt.Fprintf(&b, "\n  [fase %d] ... e mais %d erro(s)", phase, total-shown)
		}
	}

	return b.String()
}
