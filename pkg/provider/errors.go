package provider

import (
	"fmt"
	"net/http"
)

// ErrorKind classifica as falhas de backend em categorias apresentáveis ao usuário
type ErrorKind string

const (
	KindInvalidCredential ErrorKind = "invalid_credential"
	KindRateLimited       ErrorKind = "rate_limited"
	KindUnavailable       ErrorKind = "backend_unavailable"
	KindTimeout           ErrorKind = "timeout"
	KindEmptyResponse     ErrorKind = "empty_response"
	KindUnknown           ErrorKind = "unknown"
)

// ProviderError é o erro normalizado de qualquer backend de geração.
// Toda mensagem nomeia o provedor que falhou.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Message  string
	Err      error
}

// Error implementa a interface error
func (e *ProviderError) Error() string {
	return e.Message
}

// Unwrap expõe o erro original do backend
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ConfigError indica credencial ausente ou malformada, detectada na
// construção do cliente, antes de qualquer requisição
type ConfigError struct {
	Provider string
	Variable string
	Hint     string
}

// Error implementa a interface error
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: credencial ausente ou inválida — defina %s (obtenha em %s)",
		e.Provider, e.Variable, e.Hint)
}

// newTimeoutError cria o erro normalizado de timeout de requisição
func newTimeoutError(providerName string, err error) *ProviderError {
	return &ProviderError{
		Provider: providerName,
		Kind:     KindTimeout,
		Message:  fmt.Sprintf("%s: tempo limite excedido ao gerar resposta", providerName),
		Err:      err,
	}
}

// newEmptyResponseError cria o erro para respostas sem texto utilizável
func newEmptyResponseError(providerName string) *ProviderError {
	return &ProviderError{
		Provider: providerName,
		Kind:     KindEmptyResponse,
		Message:  fmt.Sprintf("%s: o serviço não retornou nenhuma resposta", providerName),
	}
}

// normalizeHTTPError traduz um status de erro do backend para a taxonomia
// comum aos três provedores
func normalizeHTTPError(providerName string, statusCode int, body string) *ProviderError {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Provider: providerName,
			Kind:     KindInvalidCredential,
			Message:  fmt.Sprintf("%s: credencial inválida ou revogada", providerName),
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Provider: providerName,
			Kind:     KindRateLimited,
			Message:  fmt.Sprintf("%s: limite de requisições excedido (rate limit), tente novamente em instantes", providerName),
		}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return &ProviderError{
			Provider: providerName,
			Kind:     KindUnavailable,
			Message:  fmt.Sprintf("%s: serviço temporariamente indisponível", providerName),
		}
	default:
		return &ProviderError{
			Provider: providerName,
			Kind:     KindUnknown,
			Message:  fmt.Sprintf("%s: erro inesperado do serviço (status %d): %s", providerName, statusCode, truncate(body, 200)),
		}
	}
}

// truncate limita o corpo de erro repassado em mensagens
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
