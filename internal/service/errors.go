package service

import (
	"errors"
	"fmt"
	"strings"

	"filmbot/pkg/log"
)

// ErrorType tags a failure with the pipeline stage it came from. Each
// kind maps to one external call or local parse step, so the top-level
// handler can tell them apart even though current policy treats all of
// them the same way.
type ErrorType int

const (
	ErrCorruptState ErrorType = iota
	ErrCatalogFetch
	ErrJudgment
	ErrGeneration
	ErrDelivery
	ErrConfig
	ErrUnknown
)

type BotError struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func NewError(errorType ErrorType, message string) *BotError {
	return &BotError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *BotError {
	return &BotError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
		Cause:   cause,
	}
}

func (e *BotError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))

	if len(e.Context) > 0 {
		var ctxParts []string
		for k, v := range e.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *BotError) Unwrap() error {
	return e.Cause
}

func (e *BotError) WithContext(key string, value any) *BotError {
	e.Context[key] = value
	return e
}

func (t ErrorType) String() string {
	switch t {
	case ErrCorruptState:
		return "CorruptState"
	case ErrCatalogFetch:
		return "CatalogFetch"
	case ErrJudgment:
		return "Judgment"
	case ErrGeneration:
		return "Generation"
	case ErrDelivery:
		return "Delivery"
	case ErrConfig:
		return "Config"
	default:
		return "Unknown"
	}
}

type ErrorHandler interface {
	Handle(err error) bool
	GetAdvice(err *BotError) string
}

type DefaultErrorHandler struct{}

func NewDefaultErrorHandler() ErrorHandler {
	return &DefaultErrorHandler{}
}

func (h *DefaultErrorHandler) Handle(err error) bool {
	botErr, ok := err.(*BotError)
	if !ok {
		log.Error("Unknown Error: %v", err)
		return false
	}

	advice := h.GetAdvice(botErr)
	log.Error("Error Detail: %v\n advice: %s", err, advice)

	return true
}

// GetAdvice returns error handling advice
func (h *DefaultErrorHandler) GetAdvice(err *BotError) string {
	switch err.Type {
	case ErrCorruptState:
		return "The sent-id file could not be read or written—inspect the JSON array in the data directory and fix or remove it"
	case ErrCatalogFetch:
		return "Please check the TMDB API key, network connectivity, or the catalog service status"
	case ErrJudgment:
		return "The judgment call to the LLM failed—check the LLM API key, the model name, and the provider status"
	case ErrGeneration:
		return "The description call to the LLM failed—check the LLM API key, the model name, and the provider status"
	case ErrDelivery:
		return "Telegram delivery failed—check the bot token, that the bot can post to the channel, and the image URL"
	case ErrConfig:
		return "Please check that environment variables are set correctly"
	default:
		return "Please review detailed error information and check relevant configuration"
	}
}

func IsErrorType(err error, errorType ErrorType) bool {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr.Type == errorType
	}
	return false
}

func WrapError(err error, errorType ErrorType, message string) *BotError {
	return NewErrorWithCause(errorType, message, err)
}

// SafeExecute converts a panic inside fn into an error so a scheduled
// run can never take the process down.
func SafeExecute(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewError(ErrUnknown, fmt.Sprintf("runtime error: %v", r))
		}
	}()

	return fn()
}
