package hierarchy

import "context"

// Service is the read-only query layer over the imported approval chains.
// Chain rows are written by the external import process; nothing here
// mutates them.
type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) OrderedChain(ctx context.Context, employeeID string) ([]ChainEntry, error) {
	return s.store.OrderedChain(ctx, employeeID)
}

func (s *Service) UserExists(ctx context.Context, userID string) (bool, error) {
	return s.store.UserExists(ctx, userID)
}

func (s *Service) IsOverride(ctx context.Context, userID string) (bool, error) {
	return s.store.IsOverride(ctx, userID)
}

// Report returns the chain together with its contiguity diagnosis.
func (s *Service) Report(ctx context.Context, employeeID string) (ChainReport, error) {
	chain, err := s.store.OrderedChain(ctx, employeeID)
	if err != nil {
		return ChainReport{}, err
	}
	missing := MissingLevels(chain)
	return ChainReport{
		EmployeeID:    employeeID,
		Entries:       chain,
		MissingLevels: missing,
		Contiguous:    len(missing) == 0,
	}, nil
}
