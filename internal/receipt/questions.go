package receipt

import (
	"github.com/harrison/labeller/internal/question"
)

// Prompt texts. Downstream answer extraction keys on question IDs, but
// the prompts still have to be unique per logical field so snapshots
// restore unambiguously within a block.
const (
	PromptReceiptDate     = "Date of the receipt:"
	PromptExpenseCategory = "Bookkeeping category:"
	PromptAccount         = "Belongs to account:"
	PromptCurrency        = "Currency:"
	PromptAmountPaid      = "Amount paid:"
	PromptChangeReturned  = "Change returned:"
	PromptAddAccount      = "Add another account?"
	PromptAddressSelector = "Shop address:"
	PromptSubtotal        = "Subtotal:"
	PromptTotalTax        = "Total tax:"
	PromptDone            = "The receipt is complete:"

	PromptShopName = "Name of the shop:"
	PromptStreet   = "Street:"
	PromptHouseNr  = "House number:"
	PromptZipcode  = "Zipcode:"
	PromptCity     = "City:"
	PromptCountry  = "Country:"
)

// DateQuestion builds the receipt timestamp question.
func DateQuestion() *question.Descriptor {
	return &question.Descriptor{
		ID:       IDReceiptDate,
		Prompt:   PromptReceiptDate,
		Kind:     question.KindDate,
		Required: true,
	}
}

// CategoryQuestion builds the bookkeeping category question. Known
// categories are offered as history suggestions; the field is a
// reconfigurer because a committed category refreshes the address
// selector's candidate list.
func CategoryQuestion(categories []string) *question.Descriptor {
	d := &question.Descriptor{
		ID:           IDExpenseCategory,
		Prompt:       PromptExpenseCategory,
		Kind:         question.KindText,
		Required:     true,
		Reconfigurer: true,
		Input:        question.LettersColon,
	}
	for _, c := range categories {
		d.HistorySuggestions = append(d.HistorySuggestions, question.HistorySuggestion{Text: c, Frequency: 1})
	}
	return d
}

// AccountQuestions builds one account block: the five questions that
// describe a single payment. The account choices are the accounts
// still available, which shrinks as earlier blocks claim accounts.
func AccountQuestions(accounts, currencies []string) []*question.Descriptor {
	return []*question.Descriptor{
		{
			ID:       IDAccount,
			Prompt:   PromptAccount,
			Kind:     question.KindVerticalChoice,
			Required: true,
			Choices:  append([]string(nil), accounts...),
		},
		{
			ID:       IDCurrency,
			Prompt:   PromptCurrency,
			Kind:     question.KindVerticalChoice,
			Required: true,
			Choices:  append([]string(nil), currencies...),
		},
		{
			ID:       IDAmountPaid,
			Prompt:   PromptAmountPaid,
			Kind:     question.KindText,
			Required: true,
			Input:    question.Float,
		},
		{
			ID:       IDChangeReturned,
			Prompt:   PromptChangeReturned,
			Kind:     question.KindText,
			Required: true,
			Input:    question.Float,
		},
		{
			ID:           IDAddAccount,
			Prompt:       PromptAddAccount,
			Kind:         question.KindHorizontalChoice,
			Required:     true,
			Reconfigurer: true,
			Choices:      []string{"n", "y"},
		},
	}
}

// AddressQuestion builds the shop address selector over the given
// candidate list (see AddressChoices). Selecting or leaving the manual
// address entry toggles the manual sub-questions, so the field is a
// reconfigurer.
func AddressQuestion(choices []string) *question.Descriptor {
	return &question.Descriptor{
		ID:           IDAddressSelector,
		Prompt:       PromptAddressSelector,
		Kind:         question.KindVerticalChoice,
		Required:     true,
		Reconfigurer: true,
		Choices:      append([]string(nil), choices...),
	}
}

// ManualAddressQuestions builds the six sub-questions inserted after
// the address selector when "manual address" is chosen.
func ManualAddressQuestions() []*question.Descriptor {
	return []*question.Descriptor{
		{ID: IDShopName, Prompt: PromptShopName, Kind: question.KindText, Required: true, Input: question.LettersSpace},
		{ID: IDStreet, Prompt: PromptStreet, Kind: question.KindText, Required: true, Input: question.LettersSpace},
		{ID: IDHouseNr, Prompt: PromptHouseNr, Kind: question.KindText, Required: true, Input: question.LettersDigits},
		{ID: IDZipcode, Prompt: PromptZipcode, Kind: question.KindText, Required: true, Input: question.LettersDigits},
		{ID: IDCity, Prompt: PromptCity, Kind: question.KindText, Required: true, Input: question.LettersSpace},
		{ID: IDCountry, Prompt: PromptCountry, Kind: question.KindText, Required: true, Input: question.LettersSpace},
	}
}

// OptionalQuestions builds the subtotal and tax questions. Both may be
// left empty when the receipt does not itemise them.
func OptionalQuestions() []*question.Descriptor {
	return []*question.Descriptor{
		{ID: IDSubtotal, Prompt: PromptSubtotal, Kind: question.KindText, Input: question.Float},
		{ID: IDTotalTax, Prompt: PromptTotalTax, Kind: question.KindText, Input: question.Float},
	}
}

// DoneQuestion builds the terminator. Only an affirmative answer ends
// the session.
func DoneQuestion() *question.Descriptor {
	return &question.Descriptor{
		ID:         IDDone,
		Prompt:     PromptDone,
		Kind:       question.KindHorizontalChoice,
		Required:   true,
		Terminator: true,
		Choices:    []string{"no", "yes"},
	}
}

// BaseQuestions assembles the minimal labelling flow: date, category,
// one account block and the terminator.
func BaseQuestions(accounts, currencies, categories []string) []*question.Descriptor {
	qs := []*question.Descriptor{
		DateQuestion(),
		CategoryQuestion(categories),
	}
	qs = append(qs, AccountQuestions(accounts, currencies)...)
	return append(qs, DoneQuestion())
}

// FullQuestions assembles the complete flow including the address
// selector and the optional amount breakdown.
func FullQuestions(accounts, currencies, categories, addressChoices []string) []*question.Descriptor {
	qs := []*question.Descriptor{
		DateQuestion(),
		CategoryQuestion(categories),
		AddressQuestion(addressChoices),
	}
	qs = append(qs, AccountQuestions(accounts, currencies)...)
	qs = append(qs, OptionalQuestions()...)
	return append(qs, DoneQuestion())
}
