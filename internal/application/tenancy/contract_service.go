package tenancy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dormbill/backend/internal/domain/billing"
	"github.com/dormbill/backend/internal/domain/shared"
	"github.com/dormbill/backend/internal/domain/tenancy"
)

// ContractService administers contracts and the deposit ledger
type ContractService struct {
	contracts tenancy.ContractRepository
	rooms     tenancy.RoomRepository
	activity  billing.ActivityLogger
	logger    *zap.Logger
}

// NewContractService creates the contract service
func NewContractService(
	contracts tenancy.ContractRepository,
	rooms tenancy.RoomRepository,
	activity billing.ActivityLogger,
	logger *zap.Logger,
) *ContractService {
	return &ContractService{
		contracts: contracts,
		rooms:     rooms,
		activity:  activity,
		logger:    logger.Named("contract-service"),
	}
}

// Create opens a contract. Exactly one active contract may exist per room.
func (s *ContractService) Create(ctx context.Context, req CreateContractRequest) (*ContractResponse, error) {
	if _, err := s.rooms.FindByID(ctx, req.RoomID); err != nil {
		return nil, err
	}
	if _, err := s.contracts.FindActiveByRoom(ctx, req.RoomID); err == nil {
		return nil, shared.NewDomainError("CONFLICT", "room already has an active contract")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	contract, err := tenancy.NewContract(req.RoomID, req.TenantName, req.StartDate, req.Deposit, req.Rent, req.OccupantCount)
	if err != nil {
		return nil, err
	}
	if req.ChannelID != "" {
		contract.LinkChannel(req.ChannelID)
	}
	if err := s.contracts.Save(ctx, contract); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, "contract.created", "contract", contract.ID, contract.TenantName)
	return ToContractResponse(contract), nil
}

// Get returns one contract
func (s *ContractService) Get(ctx context.Context, id uuid.UUID) (*ContractResponse, error) {
	contract, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToContractResponse(contract), nil
}

// List returns contracts with paging
func (s *ContractService) List(ctx context.Context, filter shared.Filter) ([]*ContractResponse, int64, error) {
	filter.Normalize()
	contracts, total, err := s.contracts.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*ContractResponse, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, ToContractResponse(c))
	}
	return out, total, nil
}

// Terminate ends a contract
func (s *ContractService) Terminate(ctx context.Context, id uuid.UUID, req TerminateContractRequest) (*ContractResponse, error) {
	contract, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := contract.Terminate(req.EndDate); err != nil {
		return nil, err
	}
	if err := s.contracts.SaveWithLock(ctx, contract); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, "contract.terminated", "contract", contract.ID, "")
	return ToContractResponse(contract), nil
}

// CreditDeposit tops up the contract's deposit balance
func (s *ContractService) CreditDeposit(ctx context.Context, id uuid.UUID, req DepositRequest) (*ContractResponse, error) {
	contract, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := contract.CreditDeposit(req.Amount); err != nil {
		return nil, err
	}
	if err := s.contracts.SaveWithLock(ctx, contract); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, "contract.deposit.credited", "contract", contract.ID,
		fmt.Sprintf("amount %s balance %s", req.Amount.StringFixed(2), contract.Deposit.StringFixed(2)))
	return ToContractResponse(contract), nil
}

// LinkChannel binds the tenant's notification channel
func (s *ContractService) LinkChannel(ctx context.Context, id uuid.UUID, req LinkChannelRequest) (*ContractResponse, error) {
	contract, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	contract.LinkChannel(req.ChannelID)
	if err := s.contracts.Save(ctx, contract); err != nil {
		return nil, err
	}
	return ToContractResponse(contract), nil
}
