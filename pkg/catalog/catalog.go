package catalog

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CountryCode selects which price column applies to a buyer.
type CountryCode string

const (
	CountryNG    CountryCode = "NG"
	CountryCIV   CountryCode = "CIV"
	CountryOther CountryCode = "OTHER"
)

// ProductPricing holds the fixed price points per product.
// NG buyers pay in NGN with an FCFA reference price; everyone else pays FCFA.
type ProductPricing struct {
	NGPrimaryFCFA int64
	NGInfoNGN     int64
	CIVFCFA       int64
	OtherFCFA     int64
}

// Pricing is the fixed product catalog. Product keys are the canonical
// identifiers used throughout the inventory ledger.
var Pricing = map[string]ProductPricing{
	"completeDetox": {NGPrimaryFCFA: 26500, NGInfoNGN: 71550, CIVFCFA: 25000, OtherFCFA: 26500},
	"ovita":         {NGPrimaryFCFA: 26500, NGInfoNGN: 71550, CIVFCFA: 25000, OtherFCFA: 26500},
	"vbh":           {NGPrimaryFCFA: 23500, NGInfoNGN: 63450, CIVFCFA: 22000, OtherFCFA: 23500},
	"antica":        {NGPrimaryFCFA: 36500, NGInfoNGN: 98550, CIVFCFA: 35000, OtherFCFA: 36500},
	"cafe":          {NGPrimaryFCFA: 21500, NGInfoNGN: 58050, CIVFCFA: 20000, OtherFCFA: 21500},
	"hotChoco":      {NGPrimaryFCFA: 21500, NGInfoNGN: 58050, CIVFCFA: 20000, OtherFCFA: 21500},
	"gelIntime":     {NGPrimaryFCFA: 13500, NGInfoNGN: 36450, CIVFCFA: 12000, OtherFCFA: 13500},
	"pateDent":      {NGPrimaryFCFA: 6500, NGInfoNGN: 17550, CIVFCFA: 5000, OtherFCFA: 6500},
	"savon":         {NGPrimaryFCFA: 8000, NGInfoNGN: 21600, CIVFCFA: 6500, OtherFCFA: 8000},
	"teraFm":        {NGPrimaryFCFA: 750000, NGInfoNGN: 2025000, CIVFCFA: 750000, OtherFCFA: 750000},
	"tapisP":        {NGPrimaryFCFA: 150000, NGInfoNGN: 405000, CIVFCFA: 120000, OtherFCFA: 150000},
}

// NGNPerFCFA is the informational conversion rate used to derive NGN prices.
const NGNPerFCFA = 2.7

// ProductKeys returns all catalog keys sorted for deterministic iteration.
func ProductKeys() []string {
	keys := make([]string, 0, len(Pricing))
	for k := range Pricing {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsProduct reports whether key identifies a catalog product.
func IsProduct(key string) bool {
	_, ok := Pricing[key]
	return ok
}

// RawPrice returns the numeric price a buyer pays for one unit, in the
// buyer's currency (NGN for NG, FCFA otherwise). Unknown keys price at 0.
func RawPrice(productKey string, country CountryCode) int64 {
	p, ok := Pricing[productKey]
	if !ok {
		return 0
	}
	switch country {
	case CountryNG:
		return p.NGInfoNGN
	case CountryCIV:
		return p.CIVFCFA
	default:
		return p.OtherFCFA
	}
}

// CurrencyLabel returns the currency the given country is billed in.
func CurrencyLabel(country CountryCode) string {
	if country == CountryNG {
		return "NGN"
	}
	return "FCFA"
}

var frPrinter = message.NewPrinter(language.French)
var ngPrinter = message.NewPrinter(language.English)

func FormatFCFA(amount int64) string {
	return frPrinter.Sprintf("%d", amount) + " FCFA"
}

func FormatNGN(amount int64) string {
	return "₦" + ngPrinter.Sprintf("%d", amount)
}

// DisplayPrice returns the primary price string for a product by country,
// plus an FCFA reference line for NG buyers.
func DisplayPrice(productKey string, country CountryCode) (primary string, secondary string) {
	p, ok := Pricing[productKey]
	if !ok {
		return "—", ""
	}
	switch country {
	case CountryNG:
		return FormatNGN(p.NGInfoNGN), fmt.Sprintf("(%s)", FormatFCFA(p.NGPrimaryFCFA))
	case CountryCIV:
		return FormatFCFA(p.CIVFCFA), ""
	default:
		return FormatFCFA(p.OtherFCFA), ""
	}
}
