package provider

import (
	"strconv"

	"github.com/hay-kot/dealscout/internal/core/search"
	"github.com/hay-kot/dealscout/pkg/urlenc"
)

// facebookRadiusKm maps supported mile radii to the kilometre values
// Facebook Marketplace accepts.
var facebookRadiusKm = map[search.Radius]int{
	5:   8,
	10:  16,
	25:  40,
	50:  80,
	100: 161,
}

// facebookDefaultKm is used for radii missing from the table: the largest
// defined distance.
const facebookDefaultKm = 161

// Builtins returns the built-in providers in display order.
func Builtins() []Provider {
	return []Provider{
		{
			ID:            "facebook",
			Name:          "Facebook Marketplace",
			RequiresLogin: true,
			URL: func(query, _ string, radius search.Radius) string {
				km, ok := facebookRadiusKm[radius]
				if !ok {
					km = facebookDefaultKm
				}
				return "https://www.facebook.com/marketplace/category/search/?query=" + urlenc.Component(query) +
					"&radius=" + strconv.Itoa(km)
			},
		},
		{
			ID:   "craigslist",
			Name: "Craigslist",
			URL: func(query, postalCode string, radius search.Radius) string {
				return "https://craigslist.org/search/sss?query=" + urlenc.Component(query) +
					"&postal=" + postalCode +
					"&search_distance=" + itoa(radius)
			},
		},
		{
			ID:   "offerup",
			Name: "OfferUp",
			URL: func(query, postalCode string, radius search.Radius) string {
				return "https://offerup.com/search?q=" + urlenc.Component(query) +
					"&radius=" + itoa(radius) +
					"&delivery_param=all&postal=" + postalCode
			},
		},
		{
			ID:   "mercari",
			Name: "Mercari",
			URL: func(query, _ string, _ search.Radius) string {
				return "https://www.mercari.com/search/?keyword=" + urlenc.Component(query)
			},
		},
		{
			ID:   "govdeals",
			Name: "GovDeals",
			URL: func(query, postalCode string, radius search.Radius) string {
				return "https://www.govdeals.com/index.cfm?fa=Main.AdvSearch&searchtext=" + urlenc.Component(query) +
					"&zipcode=" + postalCode +
					"&miles=" + itoa(radius)
			},
		},
		{
			ID:   "ebay",
			Name: "eBay Local",
			URL: func(query, postalCode string, radius search.Radius) string {
				return "https://www.ebay.com/sch/i.html?_nkw=" + urlenc.Component(query) +
					"&LH_PrefLoc=99&_stpos=" + postalCode +
					"&_sadis=" + itoa(radius)
			},
		},
		{
			ID:            "nextdoor",
			Name:          "Nextdoor",
			RequiresLogin: true,
			URL: func(query, _ string, _ search.Radius) string {
				return "https://nextdoor.com/for_sale_and_free/?query=" + urlenc.Component(query)
			},
		},
	}
}

func itoa(r search.Radius) string {
	return strconv.Itoa(int(r))
}
