package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/angelmondragon/stockkeeper/pkg/errors"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
	"github.com/angelmondragon/stockkeeper/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteNoContent answers a successful mutation that has nothing to return.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Typed normalizes err into a typed error, wrapping unknown errors as internal.
func Typed(err error) *pkgerrors.Error {
	if err == nil {
		err = errors.New("unknown error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	return typed
}

// PublicMessage is the message safe to show a client for err.
func PublicMessage(typed *pkgerrors.Error) string {
	msg := pkgerrors.MetadataFor(typed.Code()).PublicMessage
	if typed.Code().Public() {
		if m := typed.Message(); m != "" {
			msg = m
		}
	}
	return msg
}

// LogError records err with its driver diagnostics.
func LogError(ctx context.Context, logg *logger.Logger, err error) {
	if logg == nil || err == nil {
		return
	}
	ctx = logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
	logg.Error(ctx, "request.error", err)
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := Typed(err)
	meta := pkgerrors.MetadataFor(typed.Code())

	payload := types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(typed.Code()),
			Message: PublicMessage(typed),
		},
	}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Error.Details = details
		}
	}

	if err == nil {
		err = typed
	}
	LogError(ctx, logg, err)
	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
