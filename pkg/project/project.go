package project

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrProjectNotFound = errors.New("project not found")

// ErrNoContractualBasis is returned when a project has no contract amount to derive its budget from.
var ErrNoContractualBasis = errors.New("project has no contractual basis for budget at completion")

type Project struct {
	Id        int
	Code      string
	Name      string
	StartDate time.Time
	EndDate   *time.Time
	// ContractAmount is the contractual total; nil until a contract is registered.
	ContractAmount *decimal.Decimal
}

// BAC returns the budget at completion derived from the contractual total.
func (p Project) BAC() (decimal.Decimal, error) {
	if p.ContractAmount == nil {
		return decimal.Zero, ErrNoContractualBasis
	}
	return *p.ContractAmount, nil
}
