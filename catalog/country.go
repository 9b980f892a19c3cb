package catalog

import "strings"

// countries is the accepted ISO 3166-1 alpha-2 subset.
var countries = map[string]struct{}{
	"US": {}, "GB": {}, "CA": {}, "AU": {}, "DE": {}, "FR": {}, "NL": {}, "IT": {}, "ES": {}, "PT": {},
	"BR": {}, "MX": {}, "AR": {}, "CO": {}, "CL": {}, "PE": {}, "JP": {}, "KR": {}, "CN": {}, "IN": {},
	"ID": {}, "TH": {}, "VN": {}, "PH": {}, "MY": {}, "SG": {}, "HK": {}, "TW": {}, "RU": {}, "UA": {},
	"PL": {}, "CZ": {}, "RO": {}, "SE": {}, "NO": {}, "DK": {}, "FI": {}, "AT": {}, "CH": {}, "BE": {},
	"IE": {}, "NZ": {}, "ZA": {}, "EG": {}, "NG": {}, "KE": {}, "IL": {}, "TR": {}, "SA": {}, "AE": {},
}

// NormalizeCountry upper-cases code and reports whether it is accepted.
func NormalizeCountry(code string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(code))
	_, ok := countries[upper]
	return upper, ok
}
