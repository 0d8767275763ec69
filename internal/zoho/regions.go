package zoho

// Endpoints is a regional pair of authorization-server and resource-server
// base URLs.
type Endpoints struct {
	AccountsURL string
	APIURL      string
}

// defaultRegion is used when the configured data-center code is not
// recognized. The fallback is deliberately lenient; callers log it so a
// misconfiguration stays visible.
const defaultRegion = "com"

var regionEndpoints = map[string]Endpoints{
	"com": {AccountsURL: "https://accounts.zoho.com", APIURL: "https://www.zohoapis.com"},
	"eu":  {AccountsURL: "https://accounts.zoho.eu", APIURL: "https://www.zohoapis.eu"},
	"in":  {AccountsURL: "https://accounts.zoho.in", APIURL: "https://www.zohoapis.in"},
	"au":  {AccountsURL: "https://accounts.zoho.com.au", APIURL: "https://www.zohoapis.com.au"},
	"jp":  {AccountsURL: "https://accounts.zoho.jp", APIURL: "https://www.zohoapis.jp"},
}

// EndpointsForRegion resolves a two-letter data-center code to its
// endpoint pair. Unrecognized codes fall back to the default region;
// known reports whether the code was recognized.
func EndpointsForRegion(dc string) (ep Endpoints, known bool) {
	ep, known = regionEndpoints[dc]
	if !known {
		ep = regionEndpoints[defaultRegion]
	}
	return ep, known
}

// Regions lists the supported data-center codes.
func Regions() []string {
	return []string{"com", "eu", "in", "au", "jp"}
}
