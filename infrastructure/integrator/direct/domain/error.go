package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind é a enumeração fechada de tipos de falha da integração com o
// Direct. A política de retry e o orquestrador decidem comportamento
// exclusivamente a partir do Kind, nunca da mensagem.
type ErrorKind int

const (
	KindTransientNetwork ErrorKind = iota // timeout/conexão recusada, retryable
	KindRateLimited                       // HTTP 429, retryable com delay sugerido
	KindServerOverload                    // HTTP 5xx, retryable
	KindAuth                              // HTTP 401/403 ou código de credencial da API, terminal
	KindReportDefinition                  // requisição malformada/rejeitada, terminal
	KindReportTimeout                     // teto de tentativas excedido, terminal
	KindParsing                           // relatório ilegível, terminal
	KindCancelled                         // contexto cancelado pelo chamador
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransientNetwork:
		return "transient_network"
	case KindRateLimited:
		return "rate_limited"
	case KindServerOverload:
		return "server_overload"
	case KindAuth:
		return "auth"
	case KindReportDefinition:
		return "report_definition"
	case KindReportTimeout:
		return "report_timeout"
	case KindParsing:
		return "parsing"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Retryable indica se uma nova tentativa faz sentido para este tipo de falha.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindTransientNetwork, KindRateLimited, KindServerOverload:
		return true
	default:
		return false
	}
}

// DirectError carrega uma falha da integração com o tipo classificado e o
// contexto retornado pelo servidor (status HTTP, código da API, request id).
type DirectError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	APICode    int
	RequestID  string
	RetryAfter time.Duration // delay sugerido pelo servidor, zero quando ausente
	Err        error
}

func (e *DirectError) Error() string {
	msg := fmt.Sprintf("direct [%s]: %s", e.Kind, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.APICode != 0 {
		msg = fmt.Sprintf("%s (código da API %d)", msg, e.APICode)
	}
	return msg
}

func (e *DirectError) Unwrap() error {
	return e.Err
}

func (e *DirectError) Retryable() bool {
	return e.Kind.Retryable()
}

// NewDirectError cria um DirectError simples, sem contexto de servidor.
func NewDirectError(kind ErrorKind, message string) *DirectError {
	return &DirectError{Kind: kind, Message: message}
}

// AsDirectError extrai um *DirectError da cadeia de erros, se existir.
func AsDirectError(err error) (*DirectError, bool) {
	var de *DirectError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind verifica se o erro é um DirectError do tipo informado.
func IsKind(err error, kind ErrorKind) bool {
	if de, ok := AsDirectError(err); ok {
		return de.Kind == kind
	}
	return false
}

// ErrorResponse é o envelope de erro JSON da API do Direct.
type ErrorResponse struct {
	Error APIErrorBody `json:"error"`
}

type APIErrorBody struct {
	ErrorCode   int    `json:"error_code"`
	ErrorString string `json:"error_string"`
	ErrorDetail string `json:"error_detail"`
	RequestID   string `json:"request_id"`
}

func (e APIErrorBody) String() string {
	return fmt.Sprintf("código %d, %s: %s", e.ErrorCode, e.ErrorString, e.ErrorDetail)
}
