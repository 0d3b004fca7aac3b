package directclient

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	directdomain "github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/domain"
	"github.com/vfg2006/direct-insights-api/internal/domain"
)

// Headers informativos retornados pelo serviço Reports.
const (
	headerRetryIn   = "retryIn"
	headerRequestID = "RequestId"
	headerUnits     = "Units"
)

// SubmitAndWait envia a definição de relatório e repete o mesmo POST até o
// servidor devolver o corpo pronto. O protocolo do serviço Reports é de
// re-envio: 200 significa pronto (corpo TSV na resposta), 201/202 significam
// em processamento e o mesmo pedido deve ser reenviado após a espera.
//
// Falhas transitórias (rede, 429, 5xx) consomem tentativas do mesmo teto.
// Falhas de credencial ou de definição encerram imediatamente. Estourar o
// teto de tentativas vira um erro terminal de relatório não pronto.
func (c *DirectClient) SubmitAndWait(ctx context.Context, account *domain.Account, definition directdomain.ReportDefinition) (string, error) {
	token, err := c.tokens.GetToken(ctx, account.YandexLogin)
	if err != nil {
		return "", &directdomain.DirectError{
			Kind:    directdomain.KindAuth,
			Message: "não foi possível obter token de acesso para " + account.YandexLogin,
			Err:     err,
		}
	}

	payload := definition.Payload()
	url := c.cfg.ReportsEndpoint()

	var lastTransient *directdomain.DirectError

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", &directdomain.DirectError{
				Kind:    directdomain.KindCancelled,
				Message: "geração de relatório cancelada",
				Err:     err,
			}
		}

		resp, err := c.postJSON(ctx, url, token, account.YandexLogin, payload)
		if err != nil {
			de := ClassifyTransport(err)
			if de.Kind == directdomain.KindCancelled {
				return "", de
			}

			logrus.WithFields(logrus.Fields{
				"yandex_login": account.YandexLogin,
				"report_name":  definition.Name,
				"attempt":      attempt,
				"error":        err.Error(),
			}).Warn("Falha de rede ao consultar o serviço Reports")

			lastTransient = de
			if waitErr := c.policy.Wait(ctx, attempt, 0); waitErr != nil {
				return "", waitErr
			}
			continue
		}

		status := resp.StatusCode
		requestID := resp.Header.Get(headerRequestID)
		units := resp.Header.Get(headerUnits)
		retryIn := parseRetryIn(resp.Header.Get(headerRetryIn))

		logrus.WithFields(logrus.Fields{
			"yandex_login": account.YandexLogin,
			"report_name":  definition.Name,
			"attempt":      attempt,
			"status":       status,
			"request_id":   requestID,
			"units":        units,
		}).Debug("Resposta do serviço Reports")

		switch {
		case status == http.StatusOK:
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				return "", ClassifyTransport(readErr)
			}

			logrus.WithFields(logrus.Fields{
				"yandex_login": account.YandexLogin,
				"report_name":  definition.Name,
				"attempts":     attempt,
			}).Info("Relatório pronto")

			return string(body), nil

		case status == http.StatusCreated || status == http.StatusAccepted:
			// Relatório ainda em processamento, reenviar o mesmo pedido.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			if waitErr := c.policy.Wait(ctx, attempt, retryIn); waitErr != nil {
				return "", waitErr
			}

		default:
			apiErr := decodeAPIError(resp.Body)
			resp.Body.Close()

			de := ClassifyStatus(status, apiErr)
			if de.RequestID == "" {
				de.RequestID = requestID
			}
			de.RetryAfter = retryIn

			if !de.Retryable() {
				logrus.WithFields(logrus.Fields{
					"yandex_login": account.YandexLogin,
					"report_name":  definition.Name,
					"status":       status,
					"kind":         de.Kind.String(),
					"request_id":   de.RequestID,
				}).Error("Serviço Reports recusou a requisição")
				return "", de
			}

			logrus.WithFields(logrus.Fields{
				"yandex_login": account.YandexLogin,
				"report_name":  definition.Name,
				"attempt":      attempt,
				"status":       status,
				"kind":         de.Kind.String(),
			}).Warn("Falha transitória no serviço Reports")

			lastTransient = de
			if waitErr := c.policy.Wait(ctx, attempt, retryIn); waitErr != nil {
				return "", waitErr
			}
		}
	}

	timeout := &directdomain.DirectError{
		Kind:    directdomain.KindReportTimeout,
		Message: "relatório não ficou pronto após " + strconv.Itoa(c.policy.MaxAttempts) + " tentativas",
	}
	if lastTransient != nil {
		timeout.StatusCode = lastTransient.StatusCode
		timeout.Err = lastTransient
	}
	return "", timeout
}

// parseRetryIn interpreta o header retryIn, informado em segundos.
func parseRetryIn(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// decodeAPIError tenta extrair o envelope de erro JSON do corpo da resposta.
func decodeAPIError(body io.Reader) *directdomain.APIErrorBody {
	raw, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil || len(raw) == 0 {
		return nil
	}

	var envelope directdomain.ErrorResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil
	}
	if envelope.Error.ErrorCode == 0 && envelope.Error.ErrorString == "" {
		return nil
	}
	return &envelope.Error
}
