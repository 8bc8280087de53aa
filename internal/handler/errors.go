package handler

import (
	"errors"
	"log/slog"

	"github.com/set-night/groupbuyer/internal/currency"
	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/i18n"
	"github.com/set-night/groupbuyer/internal/probe"
)

// errorText maps a service error to the user's message. Errors without a
// dedicated message are logged and reported to the log chat.
func (h *Handler) errorText(lang string, err error, op string) string {
	var je *probe.JoinError
	if errors.As(err, &je) {
		return i18n.T(lang, joinErrorKey(je.Kind))
	}

	switch {
	case errors.Is(err, domain.ErrInvalidLink):
		return i18n.T(lang, i18n.InvalidLink)
	case errors.Is(err, domain.ErrAlreadySubmitted):
		return i18n.T(lang, i18n.AlreadySubmitted)
	case errors.Is(err, domain.ErrVerificationInFlight):
		return i18n.T(lang, i18n.VerificationInFlight)
	case errors.Is(err, domain.ErrNoPendingVerification), errors.Is(err, domain.ErrStaleConfirmation):
		return i18n.T(lang, i18n.NoPending)
	case errors.Is(err, domain.ErrInvalidWithdrawalInput):
		return i18n.T(lang, i18n.WithdrawInvalid)
	case errors.Is(err, domain.ErrBelowMinimumWithdrawal):
		return i18n.T(lang, i18n.WithdrawMinimum,
			h.cfg.MinWithdrawAmount.String(), currency.Name(h.cfg.WithdrawCurrency))
	case errors.Is(err, domain.ErrInsufficientBalance):
		return i18n.T(lang, i18n.WithdrawNoFunds)
	case errors.Is(err, domain.ErrHandleResolution), errors.Is(err, domain.ErrInspection):
		slog.Warn(op+" failed", "error", err)
		return i18n.T(lang, i18n.GenericError)
	}

	slog.Error(op+" failed", "error", err)
	if h.tgLogger != nil {
		h.tgLogger.LogError(err, op)
	}
	return i18n.T(lang, i18n.GenericError)
}

func joinErrorKey(kind probe.JoinErrorKind) i18n.Key {
	switch kind {
	case probe.JoinChannelPrivate, probe.JoinNotJoinable:
		return i18n.PublicNotJoinable
	case probe.JoinInviteExpired:
		return i18n.InviteExpired
	case probe.JoinInviteInvalid:
		return i18n.InviteInvalid
	case probe.JoinUsernameNotFound:
		return i18n.UsernameNotFound
	default:
		return i18n.JoinFailed
	}
}
