// Package receipt defines the questionnaire used to label a purchase
// receipt: the stable question identities, the descriptor factories
// that build the question list, the extraction of a Receipt from
// collected answers, and the sqlite store of previously labelled
// receipts that feeds suggestion history.
package receipt

import "strings"

// Stable question identities. Everything downstream keys on these, so
// they are carried end-to-end on the descriptors instead of being
// re-derived from caption text.
const (
	IDReceiptDate     = "receipt_date"
	IDExpenseCategory = "expense_category"
	IDAccount         = "account"
	IDCurrency        = "currency"
	IDAmountPaid      = "amount_paid"
	IDChangeReturned  = "change_returned"
	IDAddAccount      = "add_account"
	IDAddressSelector = "address_selector"
	IDSubtotal        = "subtotal"
	IDTotalTax        = "total_tax"
	IDDone            = "done"

	IDShopName = "shop_name"
	IDStreet   = "street"
	IDHouseNr  = "house_nr"
	IDZipcode  = "zipcode"
	IDCity     = "city"
	IDCountry  = "country"
)

// ManualAddressChoice is the address selector entry that swaps in the
// manual address sub-questions instead of reusing a prior shop.
const ManualAddressChoice = "manual address"

// BaseID strips the duplicate-disambiguation suffix a session appends
// to repeated identities, so "account_2" and "account" both resolve to
// the account question.
func BaseID(id string) string {
	i := strings.LastIndexByte(id, '_')
	if i <= 0 || i == len(id)-1 {
		return id
	}
	for _, r := range id[i+1:] {
		if r < '0' || r > '9' {
			return id
		}
	}
	return id[:i]
}

// accountBlockIDs are the identities making up one account block, in
// order. Used by the reconfiguration engine to validate the question
// list's structure before removing blocks.
var accountBlockIDs = map[string]bool{
	IDAccount:        true,
	IDCurrency:       true,
	IDAmountPaid:     true,
	IDChangeReturned: true,
	IDAddAccount:     true,
}

// IsAccountQuestion reports whether the identity belongs to an account
// block.
func IsAccountQuestion(id string) bool {
	return accountBlockIDs[BaseID(id)]
}
