package coinlore

import "strings"

// The price API identifies assets by numeric ids while the game uses
// slug ids. Both directions resolve through this table.
var numericByID = map[string]string{
	"bitcoin":     "90",
	"ethereum":    "80",
	"tether":      "518",
	"binancecoin": "2710",
	"solana":      "48543",
	"ripple":      "58",
	"cardano":     "257",
	"dogecoin":    "2",
	"polkadot":    "45219",
	"litecoin":    "1",
}

// aliases map alternative slugs onto canonical ids
var aliases = map[string]string{
	"bnb": "binancecoin",
	"xrp": "ripple",
}

var idByNumeric = func() map[string]string {
	m := make(map[string]string, len(numericByID))
	for id, numeric := range numericByID {
		m[numeric] = id
	}
	return m
}()

// NumericID returns the price API id of the game asset id
func NumericID(cryptoID string) (string, bool) {
	id := strings.ToLower(strings.TrimSpace(cryptoID))
	if canonical, ok := aliases[id]; ok {
		id = canonical
	}
	numeric, ok := numericByID[id]
	return numeric, ok
}

// InternalID returns the game asset id of a price API id
func InternalID(numericID string) (string, bool) {
	id, ok := idByNumeric[strings.TrimSpace(numericID)]
	return id, ok
}

// KnownIDs returns every canonical game asset id in the table
func KnownIDs() []string {
	ids := make([]string, 0, len(numericByID))
	for id := range numericByID {
		ids = append(ids, id)
	}
	return ids
}
