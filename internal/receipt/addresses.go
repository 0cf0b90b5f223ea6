package receipt

import "sort"

// ShopVisit is an aggregated count of prior receipts for one shop
// within one bookkeeping category. The store produces these.
type ShopVisit struct {
	Shop     string
	Category string
	Count    int
}

// AddressChoices builds the address selector's candidate list from
// prior receipts. The manual address entry always comes first. Shops
// from the currently active category follow as a separate group,
// prefixed with '*'; the remaining shops come last. Both groups are
// sorted by visit count descending, then by name ascending.
func AddressChoices(visits []ShopVisit, activeCategory string) []string {
	var active, rest []ShopVisit
	for _, v := range visits {
		if activeCategory != "" && v.Category == activeCategory {
			active = append(active, v)
		} else {
			rest = append(rest, v)
		}
	}
	byFrequency := func(group []ShopVisit) func(i, j int) bool {
		return func(i, j int) bool {
			if group[i].Count != group[j].Count {
				return group[i].Count > group[j].Count
			}
			return group[i].Shop < group[j].Shop
		}
	}
	sort.Slice(active, byFrequency(active))
	sort.Slice(rest, byFrequency(rest))

	choices := make([]string, 0, 1+len(visits))
	choices = append(choices, ManualAddressChoice)
	for _, v := range active {
		choices = append(choices, "*"+v.Shop)
	}
	seen := map[string]bool{}
	for _, v := range rest {
		if seen[v.Shop] {
			continue
		}
		seen[v.Shop] = true
		choices = append(choices, v.Shop)
	}
	return choices
}

// SelectedShop strips the active-category star from an address
// selector answer. It returns "" for the manual address entry.
func SelectedShop(answer string) string {
	if answer == ManualAddressChoice {
		return ""
	}
	if len(answer) > 0 && answer[0] == '*' {
		return answer[1:]
	}
	return answer
}
