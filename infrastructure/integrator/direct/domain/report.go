package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	appdomain "github.com/vfg2006/direct-insights-api/internal/domain"
)

// Tipos de relatório aceitos pelo serviço Reports do Direct. O relatório de
// campanha e o de termos de busca possuem tipos dedicados; os demais cortes
// usam o tipo genérico.
const (
	ReportTypeCampaignPerformance = "CAMPAIGN_PERFORMANCE_REPORT"
	ReportTypeSearchQuery         = "SEARCH_QUERY_PERFORMANCE_REPORT"
	ReportTypeCustom              = "CUSTOM_REPORT"
)

const reportDateLayout = "2006-01-02"

// FieldType descreve como o parser deve converter os valores de uma coluna.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldFloat
)

// Field é uma coluna solicitada no relatório, com o tipo esperado do valor.
type Field struct {
	Name string
	Type FieldType
}

// Colunas de métricas comuns a todos os relatórios semanais.
func metricFields() []Field {
	return []Field{
		{Name: "Impressions", Type: FieldInt},
		{Name: "Clicks", Type: FieldInt},
		{Name: "Cost", Type: FieldFloat},
		{Name: "Conversions", Type: FieldInt},
	}
}

// DimensionFields retorna as colunas de dimensão de um corte de detalhe.
// O corte demográfico é o único com duas colunas, combinadas depois em um
// único valor pelo orquestrador.
func DimensionFields(slice appdomain.StatSlice) []Field {
	switch slice {
	case appdomain.SlicePlacement:
		return []Field{{Name: "Placement", Type: FieldString}}
	case appdomain.SliceSearchQuery:
		return []Field{{Name: "Query", Type: FieldString}}
	case appdomain.SliceGeo:
		return []Field{{Name: "TargetingLocationName", Type: FieldString}}
	case appdomain.SliceDevice:
		return []Field{{Name: "Device", Type: FieldString}}
	case appdomain.SliceDemographic:
		return []Field{
			{Name: "Gender", Type: FieldString},
			{Name: "Age", Type: FieldString},
		}
	default:
		return nil
	}
}

// ReportDefinition descreve um relatório a ser gerado pelo serviço Reports:
// intervalo de datas, colunas e filtro opcional por campanha.
type ReportDefinition struct {
	Name        string
	Type        string
	DateFrom    time.Time
	DateTo      time.Time
	Fields      []Field
	CampaignIDs []int64
}

// NewCampaignPerformanceDefinition monta o relatório semanal de campanhas.
func NewCampaignPerformanceDefinition(dateFrom, dateTo time.Time) ReportDefinition {
	fields := []Field{
		{Name: "Week", Type: FieldString},
		{Name: "CampaignId", Type: FieldInt},
		{Name: "CampaignName", Type: FieldString},
		{Name: "CampaignType", Type: FieldString},
	}
	fields = append(fields, metricFields()...)

	return ReportDefinition{
		Name:     uniqueReportName("weekly-campaigns", dateFrom, dateTo),
		Type:     ReportTypeCampaignPerformance,
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Fields:   fields,
	}
}

// NewSliceDefinition monta o relatório semanal de um corte de detalhe,
// restrito às campanhas informadas.
func NewSliceDefinition(slice appdomain.StatSlice, dateFrom, dateTo time.Time, campaignIDs []int64) ReportDefinition {
	fields := []Field{
		{Name: "Week", Type: FieldString},
		{Name: "CampaignId", Type: FieldInt},
	}
	fields = append(fields, DimensionFields(slice)...)
	fields = append(fields, metricFields()...)

	reportType := ReportTypeCustom
	if slice == appdomain.SliceSearchQuery {
		reportType = ReportTypeSearchQuery
	}

	return ReportDefinition{
		Name:        uniqueReportName(fmt.Sprintf("weekly-%s", slice), dateFrom, dateTo),
		Type:        reportType,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		Fields:      fields,
		CampaignIDs: campaignIDs,
	}
}

// FieldNames retorna os nomes das colunas na ordem solicitada.
func (d ReportDefinition) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		names = append(names, f.Name)
	}
	return names
}

// FieldByName localiza a definição de uma coluna pelo nome do cabeçalho.
func (d ReportDefinition) FieldByName(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Payload monta o corpo JSON enviado ao serviço Reports. O corpo precisa ser
// idêntico em todas as repetições do mesmo pedido, por isso o nome único é
// fixado na definição e não gerado a cada envio.
func (d ReportDefinition) Payload() map[string]interface{} {
	criteria := map[string]interface{}{
		"DateFrom": d.DateFrom.Format(reportDateLayout),
		"DateTo":   d.DateTo.Format(reportDateLayout),
	}

	if len(d.CampaignIDs) > 0 {
		values := make([]string, 0, len(d.CampaignIDs))
		for _, id := range d.CampaignIDs {
			values = append(values, strconv.FormatInt(id, 10))
		}

		criteria["Filter"] = []map[string]interface{}{
			{
				"Field":    "CampaignId",
				"Operator": "IN",
				"Values":   values,
			},
		}
	}

	return map[string]interface{}{
		"params": map[string]interface{}{
			"SelectionCriteria": criteria,
			"FieldNames":        d.FieldNames(),
			"ReportName":        d.Name,
			"ReportType":        d.Type,
			"DateRangeType":     "CUSTOM_DATE",
			"Format":            "TSV",
			"IncludeVAT":        "YES",
			"IncludeDiscount":   "NO",
		},
	}
}

// uniqueReportName gera um nome de relatório único por execução. O servidor
// mantém cache de relatórios pelo nome, então reaproveitar nomes entre
// execuções devolveria dados antigos.
func uniqueReportName(prefix string, dateFrom, dateTo time.Time) string {
	return fmt.Sprintf("%s %s..%s %s",
		prefix,
		dateFrom.Format(reportDateLayout),
		dateTo.Format(reportDateLayout),
		uuid.NewString()[:8],
	)
}
