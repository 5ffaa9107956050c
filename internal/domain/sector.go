package domain

import "strings"

const SectorOther = "Other"

var industrySectors = map[string]string{
	"aerospace & defense":              "Industrials",
	"airlines":                         "Industrials",
	"auto components":                  "Consumer Discretionary",
	"automobiles":                      "Consumer Discretionary",
	"banking":                          "Financials",
	"beverages":                        "Consumer Staples",
	"biotechnology":                    "Health Care",
	"building":                         "Industrials",
	"chemicals":                        "Materials",
	"commercial services & supplies":   "Industrials",
	"communications":                   "Communication Services",
	"construction":                     "Industrials",
	"consumer products":                "Consumer Staples",
	"distributors":                     "Consumer Discretionary",
	"diversified consumer services":    "Consumer Discretionary",
	"electrical equipment":             "Industrials",
	"energy":                           "Energy",
	"financial services":               "Financials",
	"food products":                    "Consumer Staples",
	"health care":                      "Health Care",
	"hotels, restaurants & leisure":    "Consumer Discretionary",
	"industrial conglomerates":         "Industrials",
	"insurance":                        "Financials",
	"leisure products":                 "Consumer Discretionary",
	"life sciences tools & services":   "Health Care",
	"logistics & transportation":       "Industrials",
	"machinery":                        "Industrials",
	"marine":                           "Industrials",
	"media":                            "Communication Services",
	"metals & mining":                  "Materials",
	"packaging":                        "Materials",
	"pharmaceuticals":                  "Health Care",
	"professional services":            "Industrials",
	"real estate":                      "Real Estate",
	"retail":                           "Consumer Discretionary",
	"road & rail":                      "Industrials",
	"semiconductors":                   "Information Technology",
	"technology":                       "Information Technology",
	"telecommunication":                "Communication Services",
	"textiles, apparel & luxury goods": "Consumer Discretionary",
	"tobacco":                          "Consumer Staples",
	"trading companies & distributors": "Industrials",
	"utilities":                        "Utilities",
}

// SectorForIndustry maps a provider industry label to a sector. An empty
// industry has no sector; an unrecognised one falls into SectorOther.
func SectorForIndustry(industry string) string {
	key := strings.ToLower(strings.TrimSpace(industry))
	if key == "" {
		return ""
	}
	if sector, ok := industrySectors[key]; ok {
		return sector
	}
	return SectorOther
}
