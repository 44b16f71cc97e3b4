package masterdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/greenplains/sapbridge-backend/pkg/enums"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
)

// Service exposes read access to the reconciled master data. It only
// validates filter input; the repository does the rest.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "masterdata service requires a repository")
	}
	return &Service{repo: repo}, nil
}

// ParseCategory normalizes and validates an optional category filter.
// An empty value is valid and means "all categories".
func ParseCategory(raw string) (enums.Category, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return "", nil
	}
	for _, category := range enums.Categories {
		if enums.Category(trimmed) == category {
			return category, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category %q", raw))
}

func (s *Service) Products(ctx context.Context, filters ProductFilters) ([]ProductView, error) {
	products, err := s.repo.ListProducts(ctx, filters)
	if err != nil {
		return nil, err
	}
	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, newProductView(product))
	}
	return views, nil
}

func (s *Service) Parties(ctx context.Context, filters PartyFilters) ([]PartyView, error) {
	parties, err := s.repo.ListParties(ctx, filters)
	if err != nil {
		return nil, err
	}
	views := make([]PartyView, 0, len(parties))
	for _, party := range parties {
		views = append(views, newPartyView(party))
	}
	return views, nil
}

func (s *Service) PartyAddresses(ctx context.Context, filters AddressFilters) ([]PartyAddressView, error) {
	addresses, err := s.repo.ListPartyAddresses(ctx, filters)
	if err != nil {
		return nil, err
	}
	views := make([]PartyAddressView, 0, len(addresses))
	for _, address := range addresses {
		views = append(views, newPartyAddressView(address))
	}
	return views, nil
}

func (s *Service) Branches(ctx context.Context, filters BranchFilters) ([]BranchView, error) {
	branches, err := s.repo.ListBranches(ctx, filters)
	if err != nil {
		return nil, err
	}
	views := make([]BranchView, 0, len(branches))
	for _, branch := range branches {
		views = append(views, newBranchView(branch))
	}
	return views, nil
}
