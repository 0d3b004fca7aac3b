package domain

import (
	"time"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

// Account representa uma conta do Yandex.Direct vinculada a um cliente.
// O login do Yandex é a chave usada em todas as chamadas à API
// (header Client-Login) e na resolução de credenciais.
type Account struct {
	ID          string        `json:"id"`
	ClientID    string        `json:"client_id"`
	YandexLogin string        `json:"yandex_login"`
	Name        string        `json:"name"`
	Nickname    *string       `json:"nickname"`
	Status      AccountStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type AccountResponse struct {
	ID          string        `json:"id"`
	YandexLogin string        `json:"yandex_login"`
	Name        string        `json:"name"`
	Nickname    *string       `json:"nickname"`
	HasToken    bool          `json:"hasToken"`
	Status      AccountStatus `json:"status"`
}

// Token guarda as credenciais OAuth de uma conta. O access token expira;
// o refresh token permite renová-lo sem intervenção do usuário.
type Token struct {
	ID           int       `json:"id"`
	YandexLogin  string    `json:"yandex_login"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ExpiresSoon indica se o token deve ser renovado proativamente.
// Mantemos uma margem de uma hora para nunca usar um token no limite.
func (t *Token) ExpiresSoon() bool {
	return time.Until(t.ExpiresAt) < 1*time.Hour
}
