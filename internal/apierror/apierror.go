// Package apierror concentra o único tipo de erro que chega ao cliente HTTP.
//
// Cada Kind tem exatamente um status; o corpo segue o formato
// {"statusCode", "message", "error"}.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindRateLimited
	KindUnavailable
	KindUpstreamEmpty
	KindNotFound
)

const (
	MsgQuestionRequired = `O campo "question" é obrigatório.`
	MsgQuestionString   = "O campo question é uma string"
	MsgRateLimited      = "Limite de 5 solicitações por minuto atingido para esta origem."
	MsgOverloaded       = "O modelo do Gemini está temporariamente sobrecarregado. Por favor, tente novamente em alguns instantes."
	MsgUpstreamEmpty    = "O modelo do Gemini não retornou uma resposta para esta pergunta."
	MsgUnknown          = "Erro desconhecido ao processar a solicitação."
	MsgBusy             = "Muitas solicitações em processamento. Por favor, tente novamente em alguns instantes."
	msgInternalPrefix   = "Erro ao processar a solicitação: "
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	case KindUpstreamEmpty:
		return "upstream_empty"
	case KindInternal:
		return "internal"
	case KindNotFound:
		return "not_found"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Status devolve o status HTTP do Kind. Kinds desconhecidos viram 500.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstreamEmpty, KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int { return e.Kind.Status() }

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func RateLimited() *Error {
	return &Error{Kind: KindRateLimited, Message: MsgRateLimited}
}

func Unavailable(err error) *Error {
	return &Error{Kind: KindUnavailable, Message: MsgOverloaded, Err: err}
}

// Busy é a recusa do limite de requisições simultâneas.
func Busy() *Error {
	return &Error{Kind: KindUnavailable, Message: MsgBusy}
}

func NotFound(method, path string) *Error {
	return &Error{Kind: KindNotFound, Message: "Cannot " + method + " " + path}
}

func UpstreamEmpty(err error) *Error {
	return &Error{Kind: KindUpstreamEmpty, Message: MsgUpstreamEmpty, Err: err}
}

// Internal embrulha uma falha qualquer. A mensagem do erro vai para o cliente
// prefixada; sem erro (ou mensagem vazia) usa a mensagem genérica.
func Internal(err error) *Error {
	if err == nil || err.Error() == "" {
		return &Error{Kind: KindInternal, Message: MsgUnknown, Err: err}
	}
	return &Error{Kind: KindInternal, Message: msgInternalPrefix + err.Error(), Err: err}
}

// Body é o JSON de erro devolvido ao cliente.
type Body struct {
	StatusCode int    `json:"statusCode" jsonschema:"example=429"`
	Message    string `json:"message" jsonschema_description:"Mensagem legível do erro"`
	Error      string `json:"error" jsonschema:"example=Too Many Requests"`
}

// From converte qualquer erro em *Error; o que não for *Error vira Internal.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}

func BodyOf(err error) Body {
	e := From(err)
	status := e.Status()
	return Body{
		StatusCode: status,
		Message:    e.Message,
		Error:      http.StatusText(status),
	}
}

// Write escreve err como resposta JSON com o status do seu Kind.
func Write(w http.ResponseWriter, err error) {
	body := BodyOf(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(body.StatusCode)
	_ = json.NewEncoder(w).Encode(body)
}
