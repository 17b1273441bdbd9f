package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	common "posbilling/internal/domain/common"
)

func TestUserMessage(t *testing.T) {
	shortfall := &StockShortfallError{ProductName: "Tea", Available: 5, Required: 10}

	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{shortfall, "Not enough stock for Tea (available: 5, required: 10)"},
		{fmt.Errorf("wrapped: %w", shortfall), "Not enough stock for Tea (available: 5, required: 10)"},
		{ErrCartEmpty, MsgCartEmpty},
		{ErrCustomerNameRequired, MsgCustomerNameRequired},
		// invoice failures win over their cause
		{fmt.Errorf("%w: read product: %w", ErrInvoiceFailed, common.ErrAccessDenied), MsgInvoiceFailed},
		{fmt.Errorf("%w: x", ErrInvoiceFailed), MsgInvoiceFailed},
		{fmt.Errorf("list: %w", common.ErrAccessDenied), MsgAccessDenied},
		{ErrCatalogConfig, MsgCatalogUnavailable},
		{fmt.Errorf("%w: boom", ErrCatalogFetch), MsgCatalogUnavailable},
		{common.ErrNotFound, MsgNotFound},
		{ErrTenantMissing, MsgSignInRequired},
		{fmt.Errorf("other"), MsgUnexpected},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, UserMessage(tc.err), "%v", tc.err)
	}
}

func TestStockShortfallError_Is(t *testing.T) {
	err := fmt.Errorf("generate: %w", &StockShortfallError{ProductName: "Tea"})
	assert.ErrorIs(t, err, ErrStockShortfall)
	assert.NotErrorIs(t, err, ErrInvoiceFailed)
}
