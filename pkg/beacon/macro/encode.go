package macro

import (
	"net/url"
	"strings"
)

// rfc3986Fixups turns url.QueryEscape output into URI-component encoding:
// spaces are %20, and '*' uses the lower-case escape produced from its code
// point. QueryEscape already escapes ! ' ( ) which only differ from it in case
// for '*'.
var rfc3986Fixups = strings.NewReplacer("+", "%20", "%2A", "%2a")

// EncodeRFC3986 percent-encodes s for use inside a URL component.
//
// Only the unreserved characters A-Z a-z 0-9 - _ . ~ are left literal. Unlike
// plain URI-component encoding, ! ' ( ) and * are escaped too. A '%' already
// present in s is escaped again.
//
// Example:
//
//	EncodeRFC3986("it's (a) test*") // "it%27s%20%28a%29%20test%2a"
func EncodeRFC3986(s string) string {
	return rfc3986Fixups.Replace(url.QueryEscape(s))
}
