package controllers

import (
	"net/http"
	"strings"

	"github.com/greenplains/sapbridge-backend/api/responses"
	"github.com/greenplains/sapbridge-backend/api/validators"
	"github.com/greenplains/sapbridge-backend/internal/masterdata"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
)

// Master-data reads serve the reconciled local tables. Filters arrive
// as query parameters; the service returns wire-ready views.

func ProductsList(svc *masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := masterdata.ParseCategory(r.URL.Query().Get("category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.Products(r.Context(), masterdata.ProductFilters{
			Category: category,
			Search:   r.URL.Query().Get("search"),
			Limit:    limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func PartiesList(svc *masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := masterdata.ParseCategory(r.URL.Query().Get("category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parties, err := svc.Parties(r.Context(), masterdata.PartyFilters{
			Category: category,
			Search:   r.URL.Query().Get("search"),
			Limit:    limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, parties)
	}
}

func PartyAddressesList(svc *masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := masterdata.ParseCategory(r.URL.Query().Get("category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addresses, err := svc.PartyAddresses(r.Context(), masterdata.AddressFilters{
			Category: category,
			CardCode: strings.TrimSpace(r.URL.Query().Get("card_code")),
			Limit:    limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addresses)
	}
}

func BranchesList(svc *masterdata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := masterdata.ParseCategory(r.URL.Query().Get("category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		branches, err := svc.Branches(r.Context(), masterdata.BranchFilters{
			Category:   category,
			ActiveOnly: r.URL.Query().Get("active") == "true",
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, branches)
	}
}
