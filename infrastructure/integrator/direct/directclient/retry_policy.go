package directclient

import (
	"context"
	"time"

	"github.com/pkg/errors"

	directdomain "github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/domain"
	"github.com/vfg2006/direct-insights-api/internal/config"
)

// Códigos de erro da API do Direct que indicam problema de credencial.
// 52: token inválido, 53: token expirado, 54: sem permissão, 58: aplicação
// sem acesso à API.
var authAPICodes = map[int]struct{}{
	52: {},
	53: {},
	54: {},
	58: {},
}

// Código da API para limite de pontos/requisições excedido.
const rateLimitAPICode = 152

// RetryPolicy decide se uma falha merece nova tentativa e quanto esperar
// entre tentativas. O delay sugerido pelo servidor tem prioridade sobre o
// backoff calculado, limitado a uma faixa razoável.
type RetryPolicy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	MinServerDelay time.Duration
	MaxServerDelay time.Duration

	// Sleep permite injetar a espera nos testes. Quando nil usa sleepContext.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy monta a política a partir da configuração de sincronização.
func NewRetryPolicy(cfg config.StatsSync) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    cfg.MaxAttempts,
		BaseDelay:      time.Duration(cfg.BaseDelaySeconds) * time.Second,
		MaxDelay:       time.Duration(cfg.MaxDelaySeconds) * time.Second,
		MinServerDelay: 1 * time.Second,
		MaxServerDelay: time.Duration(cfg.MaxDelaySeconds) * time.Second,
	}
}

// Delay calcula a espera antes da tentativa seguinte. O atributo attempt é
// 1-based: a primeira espera usa BaseDelay e dobra a cada tentativa até o
// teto. Quando o servidor sugeriu um intervalo, ele é usado no lugar do
// backoff, limitado entre MinServerDelay e MaxServerDelay.
func (p RetryPolicy) Delay(attempt int, serverSuggested time.Duration) time.Duration {
	if serverSuggested > 0 {
		if serverSuggested < p.MinServerDelay {
			return p.MinServerDelay
		}
		if serverSuggested > p.MaxServerDelay {
			return p.MaxServerDelay
		}
		return serverSuggested
	}

	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Wait bloqueia pelo delay da tentativa, respeitando o cancelamento do
// contexto. Cancelamento vira um DirectError de tipo KindCancelled.
func (p RetryPolicy) Wait(ctx context.Context, attempt int, serverSuggested time.Duration) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	if err := sleep(ctx, p.Delay(attempt, serverSuggested)); err != nil {
		return &directdomain.DirectError{
			Kind:    directdomain.KindCancelled,
			Message: "espera entre tentativas interrompida",
			Err:     err,
		}
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ClassifyTransport converte uma falha de transporte (sem resposta HTTP) no
// tipo de erro adequado.
func ClassifyTransport(err error) *directdomain.DirectError {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &directdomain.DirectError{
			Kind:    directdomain.KindCancelled,
			Message: "requisição cancelada",
			Err:     err,
		}
	}
	return &directdomain.DirectError{
		Kind:    directdomain.KindTransientNetwork,
		Message: "falha de rede ao chamar a API do Direct",
		Err:     err,
	}
}

// ClassifyStatus converte um status HTTP de falha, com o corpo de erro da
// API quando disponível, no tipo de erro adequado.
func ClassifyStatus(statusCode int, apiErr *directdomain.APIErrorBody) *directdomain.DirectError {
	de := &directdomain.DirectError{
		StatusCode: statusCode,
		Message:    "a API do Direct recusou a requisição",
	}
	if apiErr != nil {
		de.APICode = apiErr.ErrorCode
		de.RequestID = apiErr.RequestID
		de.Message = apiErr.String()
	}

	switch {
	case statusCode == 401 || statusCode == 403:
		de.Kind = directdomain.KindAuth
	case statusCode == 429:
		de.Kind = directdomain.KindRateLimited
	case statusCode >= 500:
		de.Kind = directdomain.KindServerOverload
	default:
		de.Kind = directdomain.KindReportDefinition
		if apiErr != nil {
			if _, ok := authAPICodes[apiErr.ErrorCode]; ok {
				de.Kind = directdomain.KindAuth
			} else if apiErr.ErrorCode == rateLimitAPICode {
				de.Kind = directdomain.KindRateLimited
			}
		}
	}

	return de
}
