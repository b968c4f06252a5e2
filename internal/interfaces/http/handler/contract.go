package handler

import (
	"github.com/gin-gonic/gin"

	tenancyapp "github.com/dormbill/backend/internal/application/tenancy"
)

// ContractHandler handles contract and deposit API endpoints
type ContractHandler struct {
	BaseHandler
	contracts *tenancyapp.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contracts *tenancyapp.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// Create opens a contract on a room
func (h *ContractHandler) Create(c *gin.Context) {
	var req tenancyapp.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contract, err := h.contracts.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contract)
}

// Get returns one contract
func (h *ContractHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid contract id")
		return
	}

	contract, err := h.contracts.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// List returns contracts with paging
func (h *ContractHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contracts, total, err := h.contracts.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, contracts, total, filter.Page, filter.PageSize)
}

// Terminate ends a contract
func (h *ContractHandler) Terminate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid contract id")
		return
	}
	var req tenancyapp.TerminateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contract, err := h.contracts.Terminate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// CreditDeposit tops up the contract deposit
func (h *ContractHandler) CreditDeposit(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid contract id")
		return
	}
	var req tenancyapp.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contract, err := h.contracts.CreditDeposit(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// LinkChannel binds the tenant's notification channel
func (h *ContractHandler) LinkChannel(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid contract id")
		return
	}
	var req tenancyapp.LinkChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contract, err := h.contracts.LinkChannel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}
