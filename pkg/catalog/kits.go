package catalog

// KitItem is one product line inside a membership kit.
type KitItem struct {
	ProductKey string
	Quantity   int
}

// Kit is a membership pack sold to new resellers. Receiving one stocks the
// reseller's shop with the kit contents.
type Kit struct {
	Key             string
	Name            string
	MembershipPrice int64
	ResaleValue     int64
	Contents        []KitItem
	BV              int
	PV              int
	SeatKit         int
	Recommended     bool
}

var Kits = []Kit{
	{
		Key: "starter", Name: "STARTER",
		MembershipPrice: 70000, ResaleValue: 76500,
		Contents: []KitItem{
			{ProductKey: "completeDetox", Quantity: 1},
			{ProductKey: "ovita", Quantity: 1},
			{ProductKey: "vbh", Quantity: 1},
		},
		BV: 50, PV: 50, SeatKit: 200,
	},
	{
		Key: "entrepreneur", Name: "ENTREPRENEUR",
		MembershipPrice: 130000, ResaleValue: 200000,
		Contents: []KitItem{
			{ProductKey: "completeDetox", Quantity: 2},
			{ProductKey: "ovita", Quantity: 2},
			{ProductKey: "vbh", Quantity: 2},
		},
		BV: 100, PV: 100, SeatKit: 500,
	},
	{
		Key: "investor", Name: "INVESTOR",
		MembershipPrice: 255000, ResaleValue: 400000,
		Contents: []KitItem{
			{ProductKey: "completeDetox", Quantity: 4},
			{ProductKey: "ovita", Quantity: 4},
			{ProductKey: "vbh", Quantity: 4},
		},
		BV: 200, PV: 200, SeatKit: 1000,
		Recommended: true,
	},
	{
		Key: "business", Name: "BUSINESS",
		MembershipPrice: 500000, ResaleValue: 612000,
		Contents: []KitItem{
			{ProductKey: "completeDetox", Quantity: 8},
			{ProductKey: "ovita", Quantity: 8},
			{ProductKey: "vbh", Quantity: 8},
		},
		BV: 400, PV: 400, SeatKit: 2000,
	},
	{
		Key: "king", Name: "KING",
		MembershipPrice: 990000, ResaleValue: 1224000,
		Contents: []KitItem{
			{ProductKey: "completeDetox", Quantity: 16},
			{ProductKey: "ovita", Quantity: 16},
			{ProductKey: "vbh", Quantity: 16},
		},
		BV: 800, PV: 800, SeatKit: 4000,
	},
}

// KitPricing holds the per-country membership price points.
type KitPricing struct {
	NG    int64
	CIV   int64
	Other int64
}

var kitPricing = map[string]KitPricing{
	"starter":      {NG: 70000, CIV: 60000, Other: 70000},
	"entrepreneur": {NG: 140000, CIV: 120000, Other: 140000},
	"investor":     {NG: 280000, CIV: 240000, Other: 280000},
	"business":     {NG: 500000, CIV: 480000, Other: 500000},
	"king":         {NG: 990000, CIV: 960000, Other: 990000},
}

// FindKit returns the kit with the given key, or nil.
func FindKit(key string) *Kit {
	for i := range Kits {
		if Kits[i].Key == key {
			return &Kits[i]
		}
	}
	return nil
}

func IsKit(key string) bool {
	return FindKit(key) != nil
}

// KitPrice returns the membership price for a kit by country. Unknown kit
// keys price at 0.
func KitPrice(kitKey string, country CountryCode) int64 {
	k, ok := kitPricing[kitKey]
	if !ok {
		return 0
	}
	switch country {
	case CountryNG:
		return k.NG
	case CountryCIV:
		return k.CIV
	default:
		return k.Other
	}
}

func FormatKitPrice(kitKey string, country CountryCode) string {
	price := KitPrice(kitKey, country)
	if country == CountryNG {
		return FormatNGN(price)
	}
	return FormatFCFA(price)
}
