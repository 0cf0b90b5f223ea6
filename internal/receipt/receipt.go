package receipt

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/labeller/internal/question"
	"github.com/harrison/labeller/internal/session"
)

// Transaction is one payment leg of a receipt: which account paid, in
// which currency, and how much.
type Transaction struct {
	Account        string
	Currency       string
	AmountPaid     float64
	ChangeReturned float64
}

// Address is a manually entered shop address.
type Address struct {
	ShopName    string
	Street      string
	HouseNumber string
	Zipcode     string
	City        string
	Country     string
}

// Receipt is the labelled record produced from a finished session.
type Receipt struct {
	ID           string
	Date         time.Time
	Category     string
	Shop         string
	Address      *Address
	Transactions []Transaction
	Subtotal     float64
	TotalTax     float64
	LabelledAt   time.Time
}

// ShopName returns the shop identifier for history purposes: the
// manual address's name when present, else the selected prior shop.
func (r *Receipt) ShopName() string {
	if r.Address != nil {
		return r.Address.ShopName
	}
	return r.Shop
}

// FromAnswers maps a session's collected answers onto a Receipt. The
// answers arrive in entry order; each account chooser starts a new
// transaction that the following block questions fill in. Questions
// the mapping does not know are ignored.
func FromAnswers(answers []session.Answer) (*Receipt, error) {
	r := &Receipt{
		ID:         uuid.NewString(),
		LabelledAt: time.Now(),
	}
	var tx *Transaction
	var addr Address
	manual := false

	for _, a := range answers {
		switch BaseID(a.ID) {
		case IDReceiptDate:
			if a.Value.Kind != question.ValueTime {
				return nil, fmt.Errorf("question %s: expected a timestamp, got %v", a.ID, a.Value.Kind)
			}
			r.Date = a.Value.Time
		case IDExpenseCategory:
			r.Category = a.Value.Str
		case IDAddressSelector:
			r.Shop = SelectedShop(a.Value.Str)
		case IDAccount:
			r.Transactions = append(r.Transactions, Transaction{Account: a.Value.Str})
			tx = &r.Transactions[len(r.Transactions)-1]
		case IDCurrency:
			if tx == nil {
				return nil, fmt.Errorf("question %s: currency answered outside an account block", a.ID)
			}
			tx.Currency = a.Value.Str
		case IDAmountPaid:
			if tx == nil {
				return nil, fmt.Errorf("question %s: amount answered outside an account block", a.ID)
			}
			tx.AmountPaid = a.Value.Float
		case IDChangeReturned:
			if tx == nil {
				return nil, fmt.Errorf("question %s: change answered outside an account block", a.ID)
			}
			tx.ChangeReturned = a.Value.Float
		case IDSubtotal:
			r.Subtotal = a.Value.Float
		case IDTotalTax:
			r.TotalTax = a.Value.Float
		case IDShopName:
			manual = true
			addr.ShopName = a.Value.Str
		case IDStreet:
			addr.Street = a.Value.Str
		case IDHouseNr:
			addr.HouseNumber = a.Value.Str
		case IDZipcode:
			addr.Zipcode = a.Value.Str
		case IDCity:
			addr.City = a.Value.Str
		case IDCountry:
			addr.Country = a.Value.Str
		}
	}

	if manual {
		r.Address = &addr
	}
	if r.Date.IsZero() {
		return nil, fmt.Errorf("receipt has no date")
	}
	if len(r.Transactions) == 0 {
		return nil, fmt.Errorf("receipt has no account transactions")
	}
	return r, nil
}
