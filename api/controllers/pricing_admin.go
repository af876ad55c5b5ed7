package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printhuis/quoteportal-backend/api/middleware"
	"github.com/printhuis/quoteportal-backend/api/responses"
	"github.com/printhuis/quoteportal-backend/api/validators"
	tariffsvc "github.com/printhuis/quoteportal-backend/internal/tariffs"
	"github.com/printhuis/quoteportal-backend/pkg/enums"
	pkgerrors "github.com/printhuis/quoteportal-backend/pkg/errors"
	"github.com/printhuis/quoteportal-backend/pkg/logger"
	"github.com/printhuis/quoteportal-backend/pkg/types"
)

// GetPricingSettings returns the global pricing factors singleton.
func GetPricingSettings(svc tariffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tariff service unavailable"))
			return
		}

		settings, err := svc.GetSettings(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, settings)
	}
}

type updateSettingsRequest struct {
	TextileDiscountPercent          decimal.Decimal `json:"textile_discount_percent"`
	ClientProvidedIndexationPercent decimal.Decimal `json:"client_provided_indexation_percent"`
	ExpressSurchargePercentPerDay   decimal.Decimal `json:"express_surcharge_percent_per_day"`
	IndividualPackagingUnitPrice    decimal.Decimal `json:"individual_packaging_unit_price"`
	NewCartonUnitPrice              decimal.Decimal `json:"new_carton_unit_price"`
	VectorizationUnitPrice          decimal.Decimal `json:"vectorization_unit_price"`
}

func (p updateSettingsRequest) toInput() tariffsvc.SettingsInput {
	return tariffsvc.SettingsInput{
		TextileDiscountPercent:          p.TextileDiscountPercent,
		ClientProvidedIndexationPercent: p.ClientProvidedIndexationPercent,
		ExpressSurchargePercentPerDay:   p.ExpressSurchargePercentPerDay,
		IndividualPackagingUnitPrice:    p.IndividualPackagingUnitPrice,
		NewCartonUnitPrice:              p.NewCartonUnitPrice,
		VectorizationUnitPrice:          p.VectorizationUnitPrice,
	}
}

// UpdatePricingSettings overwrites the settings singleton. The whole
// payload is required; range checks happen in the service.
func UpdatePricingSettings(svc tariffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tariff service unavailable"))
			return
		}

		actorID, err := adminActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.UpdateSettings(r.Context(), actorID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logg.Info(logg.WithField(r.Context(), "settings_id", saved.ID.String()), "pricing.settings.updated")
		responses.WriteSuccess(w, saved)
	}
}

// ListServiceTariffs returns every configured technique tariff.
func ListServiceTariffs(svc tariffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tariff service unavailable"))
			return
		}

		rows, err := svc.ListTariffs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// GetServiceTariff returns one technique's tariff.
func GetServiceTariff(svc tariffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tariff service unavailable"))
			return
		}

		technique, err := parseTechnique(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.GetTariff(r.Context(), technique)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}

type upsertTariffRequest struct {
	QuantityRanges             []types.QuantityRange   `json:"quantity_ranges" validate:"required,min=1"`
	StitchRanges               []types.StitchRange     `json:"stitch_ranges,omitempty"`
	PrintSizes                 []string                `json:"print_sizes,omitempty"`
	PriceCells                 []types.PriceCell       `json:"price_cells" validate:"required,min=1"`
	FixedFeePerColor           decimal.Decimal         `json:"fixed_fee_per_color"`
	FixedFeeSmallDigitization  decimal.Decimal         `json:"fixed_fee_small_digitization"`
	FixedFeeLargeDigitization  decimal.Decimal         `json:"fixed_fee_large_digitization"`
	SmallDigitizationThreshold int                     `json:"small_digitization_threshold" validate:"min=0"`
	SurchargeOptions           []types.SurchargeOption `json:"surcharge_options,omitempty"`
}

func (p upsertTariffRequest) toInput(technique enums.Technique) tariffsvc.TariffInput {
	return tariffsvc.TariffInput{
		Technique:                  technique,
		QuantityRanges:             p.QuantityRanges,
		StitchRanges:               p.StitchRanges,
		PrintSizes:                 p.PrintSizes,
		PriceCells:                 p.PriceCells,
		FixedFeePerColor:           p.FixedFeePerColor,
		FixedFeeSmallDigitization:  p.FixedFeeSmallDigitization,
		FixedFeeLargeDigitization:  p.FixedFeeLargeDigitization,
		SmallDigitizationThreshold: p.SmallDigitizationThreshold,
		SurchargeOptions:           p.SurchargeOptions,
	}
}

// UpsertServiceTariff creates or replaces the tariff for the technique in
// the URL. The technique in the path is authoritative.
func UpsertServiceTariff(svc tariffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tariff service unavailable"))
			return
		}

		actorID, err := adminActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		technique, err := parseTechnique(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload upsertTariffRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.UpsertTariff(r.Context(), actorID, payload.toInput(technique))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logg.Info(logg.WithField(r.Context(), "technique", string(technique)), "tariff.upserted")
		responses.WriteSuccess(w, saved)
	}
}

// DeleteServiceTariff removes the tariff for one technique. Quotes priced
// against it are unaffected; new quotes for the technique become
// unpriceable until a tariff is configured again.
func DeleteServiceTariff(svc tariffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tariff service unavailable"))
			return
		}

		actorID, err := adminActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		technique, err := parseTechnique(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteTariff(r.Context(), actorID, technique); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logg.Info(logg.WithField(r.Context(), "technique", string(technique)), "tariff.deleted")
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func adminActorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	actorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return actorID, nil
}

func parseTechnique(r *http.Request) (enums.Technique, error) {
	technique := enums.Technique(chi.URLParam(r, "technique"))
	if !technique.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid technique %q", technique))
	}
	return technique, nil
}
