package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/printhuis/quoteportal-backend/api/middleware"
	"github.com/printhuis/quoteportal-backend/api/responses"
	"github.com/printhuis/quoteportal-backend/api/validators"
	quotesvc "github.com/printhuis/quoteportal-backend/internal/quotes"
	pkgauth "github.com/printhuis/quoteportal-backend/pkg/auth"
	pkgerrors "github.com/printhuis/quoteportal-backend/pkg/errors"
	"github.com/printhuis/quoteportal-backend/pkg/logger"
	"github.com/printhuis/quoteportal-backend/pkg/metrics"
)

// PriceQuote prices a quote without persisting it. Clients use it to
// iterate on a configuration before saving a draft.
func PriceQuote(svc quotesvc.Service, m *metrics.QuoteMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload quotesvc.QuoteInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := scopeClientRef(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start := time.Now()
		dto, err := svc.PriceQuote(r.Context(), payload)
		m.ObservePricing("price", time.Since(start))
		if err != nil {
			m.IncPriced(pricingOutcome(err))
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.IncPriced("priced")

		responses.WriteSuccess(w, dto)
	}
}

// CreateQuoteDraft prices the payload and persists the result as a draft.
func CreateQuoteDraft(svc quotesvc.Service, m *metrics.QuoteMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload quotesvc.QuoteInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := scopeClientRef(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start := time.Now()
		dto, err := svc.CreateDraft(r.Context(), payload)
		m.ObservePricing("draft", time.Since(start))
		if err != nil {
			m.IncPriced(pricingOutcome(err))
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.IncPriced("priced")

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// GetQuote returns one quote. Client tokens only see their own.
func GetQuote(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "quoteID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quote id"))
			return
		}

		dto, err := svc.GetQuote(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := checkQuoteScope(r, dto.ClientRef); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ListQuotes lists quotes for one client. Client tokens are pinned to
// their own ref; admins pick one with the client_ref query parameter.
func ListQuotes(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		clientRef := middleware.ClientRefFromContext(r.Context())
		if middleware.RoleFromContext(r.Context()) == string(pkgauth.RoleAdmin) {
			clientRef = r.URL.Query().Get("client_ref")
		}
		if clientRef == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "client_ref is required"))
			return
		}

		dtos, err := svc.ListQuotes(r.Context(), clientRef)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dtos)
	}
}

// SubmitQuote finalizes a draft and queues the ERP handoff event.
func SubmitQuote(svc quotesvc.Service, m *metrics.QuoteMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "quoteID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quote id"))
			return
		}

		existing, err := svc.GetQuote(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := checkQuoteScope(r, existing.ClientRef); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.SubmitQuote(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.IncSubmitted()

		responses.WriteSuccess(w, dto)
	}
}

// scopeClientRef pins the payload to the caller's own client ref when the
// token is a client token. Admins may price on behalf of any client and
// must name one explicitly.
func scopeClientRef(r *http.Request, payload *quotesvc.QuoteInput) error {
	if middleware.RoleFromContext(r.Context()) == string(pkgauth.RoleAdmin) {
		if payload.ClientRef == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "client_ref is required")
		}
		return nil
	}
	ref := middleware.ClientRefFromContext(r.Context())
	if ref == "" {
		return pkgerrors.New(pkgerrors.CodeForbidden, "client context missing")
	}
	payload.ClientRef = ref
	return nil
}

// checkQuoteScope hides other clients' quotes behind a not-found so quote
// IDs cannot be probed across accounts.
func checkQuoteScope(r *http.Request, recordRef string) error {
	if middleware.RoleFromContext(r.Context()) == string(pkgauth.RoleAdmin) {
		return nil
	}
	if middleware.ClientRefFromContext(r.Context()) != recordRef {
		return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}
	return nil
}

func pricingOutcome(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeUnpriceable:
			return "unpriceable"
		case pkgerrors.CodeValidation:
			return "invalid"
		}
	}
	return "error"
}
