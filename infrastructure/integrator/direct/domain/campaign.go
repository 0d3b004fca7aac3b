package domain

// Campaign é uma campanha do Direct conforme retornada pelo serviço
// Campaigns, com o tipo técnico traduzido para um rótulo legível.
type Campaign struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	State        string `json:"state"`
	Status       string `json:"status"`
	Type         string `json:"type"`
	ReadableType string `json:"readableType"`
}

// campaignTypeLabels traduz o código de tipo de campanha da API para um
// rótulo de exibição. Códigos desconhecidos são mantidos como estão.
var campaignTypeLabels = map[string]string{
	"TEXT_CAMPAIGN":          "Anúncios de texto e imagem",
	"UNIFIED_CAMPAIGN":       "Campanha de performance unificada",
	"SMART_CAMPAIGN":         "Banners inteligentes",
	"DYNAMIC_TEXT_CAMPAIGN":  "Anúncios dinâmicos",
	"MOBILE_APP_CAMPAIGN":    "Anúncios de aplicativos móveis",
	"MCBANNER_CAMPAIGN":      "Banner na busca",
	"CPM_BANNER_CAMPAIGN":    "Campanha de display",
	"CPM_DEALS_CAMPAIGN":     "Campanha de display com acordos",
	"CPM_FRONTPAGE_CAMPAIGN": "Campanha de display na página inicial",
	"CPM_PRICE":              "Campanha com CPM fixo",
}

// ReadableCampaignType retorna o rótulo legível do tipo de campanha.
func ReadableCampaignType(typeCode string) string {
	if label, ok := campaignTypeLabels[typeCode]; ok {
		return label
	}
	return typeCode
}

// CampaignsResponse é o envelope da resposta do serviço Campaigns.
type CampaignsResponse struct {
	Result struct {
		Campaigns []CampaignPayload `json:"Campaigns"`
	} `json:"result"`
}

// CampaignPayload é uma campanha no formato bruto da API.
type CampaignPayload struct {
	ID     int64  `json:"Id"`
	Name   string `json:"Name"`
	State  string `json:"State"`
	Status string `json:"Status"`
	Type   string `json:"Type"`
}

// ToCampaign converte o payload bruto para o modelo interno.
func (p CampaignPayload) ToCampaign() Campaign {
	return Campaign{
		ID:           p.ID,
		Name:         p.Name,
		State:        p.State,
		Status:       p.Status,
		Type:         p.Type,
		ReadableType: ReadableCampaignType(p.Type),
	}
}
