package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	directdomain "github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/domain"
)

var campaignFields = []directdomain.Field{
	{Name: "Week", Type: directdomain.FieldString},
	{Name: "CampaignId", Type: directdomain.FieldInt},
	{Name: "CampaignName", Type: directdomain.FieldString},
	{Name: "Impressions", Type: directdomain.FieldInt},
	{Name: "Clicks", Type: directdomain.FieldInt},
	{Name: "Cost", Type: directdomain.FieldFloat},
	{Name: "Conversions", Type: directdomain.FieldInt},
}

func TestParse_HeaderOnFirstLine(t *testing.T) {
	raw := "Week\tCampaignId\tCampaignName\tImpressions\tClicks\tCost\tConversions\n" +
		"2024-01-01\t123\tCampanha A\t1000\t50\t75.30\t3\n"

	rows, err := Parse(raw, campaignFields)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "2024-01-01", rows[0].String("Week"))
	assert.Equal(t, int64(123), rows[0].Int("CampaignId"))
	assert.Equal(t, "Campanha A", rows[0].String("CampaignName"))
	assert.Equal(t, int64(1000), rows[0].Int("Impressions"))
	assert.Equal(t, int64(50), rows[0].Int("Clicks"))
	assert.Equal(t, 75.30, rows[0].Float("Cost"))
	assert.Equal(t, int64(3), rows[0].Int("Conversions"))
}

func TestParse_HeaderOnSecondLineAfterTitle(t *testing.T) {
	raw := "Relatório semanal (2024-01-01 - 2024-01-07)\n" +
		"Week\tCampaignId\tCampaignName\tImpressions\tClicks\tCost\tConversions\n" +
		"2024-01-01\t123\tCampanha A\t1000\t50\t75.30\t3\n" +
		"2024-01-01\t456\tCampanha B\t200\t10\t12.00\t0\n"

	rows, err := Parse(raw, campaignFields)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(123), rows[0].Int("CampaignId"))
	assert.Equal(t, int64(456), rows[1].Int("CampaignId"))
}

func TestParse_MissingHeaderReturnsTypedError(t *testing.T) {
	raw := "2024-01-01\t123\tCampanha A\t1000\t50\t75.30\t3\n"

	rows, err := Parse(raw, campaignFields)
	require.Error(t, err)
	assert.Nil(t, rows)
	assert.True(t, directdomain.IsKind(err, directdomain.KindParsing))
}

func TestParse_SkipsTotalRows(t *testing.T) {
	raw := "Week\tCampaignId\tCampaignName\tImpressions\tClicks\tCost\tConversions\n" +
		"2024-01-01\t123\tCampanha A\t1000\t50\t75.30\t3\n" +
		"Total\t--\t--\t1000\t50\t75.30\t3\n" +
		"Итого\t--\t--\t1000\t50\t75.30\t3\n"

	rows, err := Parse(raw, campaignFields)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParse_NullSentinelBecomesNil(t *testing.T) {
	raw := "Week\tCampaignId\tCampaignName\tImpressions\tClicks\tCost\tConversions\n" +
		"2024-01-01\t123\tCampanha A\t--\t--\t--\t--\n"

	rows, err := Parse(raw, campaignFields)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.True(t, rows[0].IsNull("Impressions"))
	assert.True(t, rows[0].IsNull("Cost"))
	assert.Equal(t, int64(0), rows[0].Int("Impressions"))
	assert.Equal(t, 0.0, rows[0].Float("Cost"))
}

func TestParse_AcceptsCommaDecimalSeparator(t *testing.T) {
	raw := "Week\tCampaignId\tCampaignName\tImpressions\tClicks\tCost\tConversions\n" +
		"2024-01-01\t123\tCampanha A\t1000\t50\t75,30\t3\n"

	rows, err := Parse(raw, campaignFields)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 75.30, rows[0].Float("Cost"))
}

func TestParse_SkipsMalformedRows(t *testing.T) {
	raw := "Week\tCampaignId\tCampaignName\tImpressions\tClicks\tCost\tConversions\n" +
		"2024-01-01\tnão-é-número\tCampanha A\t1000\t50\t75.30\t3\n" +
		"2024-01-01\t123\tCampanha B\n" +
		"2024-01-01\t456\tCampanha C\t200\t10\t12.00\t0\n"

	rows, err := Parse(raw, campaignFields)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(456), rows[0].Int("CampaignId"))
}

func TestParse_IgnoresExtraServerColumns(t *testing.T) {
	raw := "Week\tCampaignId\tCampaignName\tImpressions\tClicks\tCost\tConversions\tCtr\n" +
		"2024-01-01\t123\tCampanha A\t1000\t50\t75.30\t3\t5.00\n"

	rows, err := Parse(raw, campaignFields)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, int64(123), rows[0].Int("CampaignId"))
	_, hasExtra := rows[0]["Ctr"]
	assert.False(t, hasExtra)
}

func TestParse_Deterministic(t *testing.T) {
	raw := "Week\tCampaignId\tCampaignName\tImpressions\tClicks\tCost\tConversions\n" +
		"2024-01-01\t123\tCampanha A\t1000\t50\t75.30\t3\n" +
		"2024-01-01\t456\tCampanha B\t200\t10\t12,50\t1\n"

	first, err := Parse(raw, campaignFields)
	require.NoError(t, err)

	second, err := Parse(raw, campaignFields)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParse_CRLFLineEndings(t *testing.T) {
	raw := "Week\tCampaignId\tCampaignName\tImpressions\tClicks\tCost\tConversions\r\n" +
		"2024-01-01\t123\tCampanha A\t1000\t50\t75.30\t3\r\n"

	rows, err := Parse(raw, campaignFields)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(123), rows[0].Int("CampaignId"))
}
