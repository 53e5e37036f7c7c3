package handler

import (
	"go-shopstock/pkg/catalog"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the fixed product and kit catalog with country
// sensitive pricing for storefront pages. No auth, no database.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

func countryFromQuery(c *fiber.Ctx) catalog.CountryCode {
	switch catalog.CountryCode(c.Query("country")) {
	case catalog.CountryNG:
		return catalog.CountryNG
	case catalog.CountryCIV:
		return catalog.CountryCIV
	default:
		return catalog.CountryOther
	}
}

type productView struct {
	Key            string `json:"key"`
	Price          int64  `json:"price"`
	Currency       string `json:"currency"`
	DisplayPrice   string `json:"display_price"`
	SecondaryPrice string `json:"secondary_price,omitempty"`
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	country := countryFromQuery(c)

	products := make([]productView, 0, len(catalog.ProductKeys()))
	for _, key := range catalog.ProductKeys() {
		primary, secondary := catalog.DisplayPrice(key, country)
		products = append(products, productView{
			Key:            key,
			Price:          catalog.RawPrice(key, country),
			Currency:       catalog.CurrencyLabel(country),
			DisplayPrice:   primary,
			SecondaryPrice: secondary,
		})
	}

	return c.JSON(fiber.Map{"data": products, "country": country})
}

type kitView struct {
	catalog.Kit
	Price        int64  `json:"price"`
	Currency     string `json:"currency"`
	DisplayPrice string `json:"display_price"`
}

func (h *CatalogHandler) GetKits(c *fiber.Ctx) error {
	country := countryFromQuery(c)

	kits := make([]kitView, 0, len(catalog.Kits))
	for _, kit := range catalog.Kits {
		kits = append(kits, kitView{
			Kit:          kit,
			Price:        catalog.KitPrice(kit.Key, country),
			Currency:     catalog.CurrencyLabel(country),
			DisplayPrice: catalog.FormatKitPrice(kit.Key, country),
		})
	}

	return c.JSON(fiber.Map{"data": kits, "country": country})
}
