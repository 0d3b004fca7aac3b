package directclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func campaignsBody(entries string) string {
	return `{"result":{"Campaigns":[` + entries + `]}}`
}

func TestListCampaigns_MergeVersionsSemDuplicar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-teste", r.Header.Get("Authorization"))
		assert.Equal(t, "loja-exemplo", r.Header.Get("Client-Login"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v5/campaigns":
			w.Write([]byte(campaignsBody(
				`{"Id":10,"Name":"Busca Verão","State":"ON","Status":"ACCEPTED","Type":"TEXT_CAMPAIGN"},` +
					`{"Id":20,"Name":"Display Inverno","State":"OFF","Status":"ACCEPTED","Type":"CPM_BANNER_CAMPAIGN"}`)))
		case "/v501/campaigns":
			// O ID 10 repete nas duas versões e deve aparecer uma única vez.
			w.Write([]byte(campaignsBody(
				`{"Id":10,"Name":"Busca Verão","State":"ON","Status":"ACCEPTED","Type":"TEXT_CAMPAIGN"},` +
					`{"Id":30,"Name":"App Promo","State":"ON","Status":"ACCEPTED","Type":"MOBILE_APP_CAMPAIGN"}`)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	var slept []time.Duration
	client := newTestClient(server.URL, 3, &slept)

	campaigns, err := client.ListCampaigns(context.Background(), testAccount())
	require.NoError(t, err)
	require.Len(t, campaigns, 3)

	// Ordenadas por nome
	assert.Equal(t, "App Promo", campaigns[0].Name)
	assert.Equal(t, "Busca Verão", campaigns[1].Name)
	assert.Equal(t, "Display Inverno", campaigns[2].Name)

	assert.Equal(t, "Anúncios de texto e imagem", campaigns[1].ReadableType)
}

func TestListCampaigns_FalhaEmUmaVersaoNaoDerrubaListagem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v5/campaigns":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"error_code":1000,"error_string":"Internal error"}}`))
		case "/v501/campaigns":
			w.Write([]byte(campaignsBody(`{"Id":30,"Name":"App Promo","State":"ON","Status":"ACCEPTED","Type":"MOBILE_APP_CAMPAIGN"}`)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	var slept []time.Duration
	client := newTestClient(server.URL, 3, &slept)

	campaigns, err := client.ListCampaigns(context.Background(), testAccount())
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, int64(30), campaigns[0].ID)
}

func TestListCampaigns_FalhaNasDuasVersoesPropagaErro(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"error_code":53,"error_string":"Authorization error"}}`))
	}))
	defer server.Close()

	var slept []time.Duration
	client := newTestClient(server.URL, 3, &slept)

	campaigns, err := client.ListCampaigns(context.Background(), testAccount())
	require.Error(t, err)
	assert.Empty(t, campaigns)
}
