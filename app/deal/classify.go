package deal

import "strings"

// StoreInfo describes a source bucket: its fairness/dedup tag, display name
// and channel hashtag.
type StoreInfo struct {
	Tag     string
	Name    string
	Hashtag string
}

// LocalStore is the default bucket for URLs matching no known domain.
var LocalStore = StoreInfo{Tag: "LOCAL", Name: "Local Deals", Hashtag: "#AustraliaDeals"}

type classifyRule struct {
	pattern string
	store   StoreInfo
}

// classifyRules is evaluated in order, first match wins. Keep the generic
// marketplaces after the majors so shared-domain links land in the right
// bucket.
var classifyRules = []classifyRule{
	{"amazon.com.au", StoreInfo{"AMAZONAU", "Amazon AU", "#AmazonAU"}},
	{"jbhifi.com.au", StoreInfo{"JBHIFI", "JB Hi-Fi", "#JBHiFi"}},
	{"coles.com.au", StoreInfo{"COLES", "Coles", "#Coles"}},
	{"woolworths.com.au", StoreInfo{"WOOLWORTHS", "Woolworths", "#Woolworths"}},
	{"bigw.com.au", StoreInfo{"BIGW", "BIG W", "#BigW"}},
	{"chemistwarehouse.com.au", StoreInfo{"CHEMISTWAREHOUSE", "Chemist Warehouse", "#ChemistWarehouse"}},
	{"catch.com.au", StoreInfo{"CATCH", "Catch", "#Catch"}},
	{"kogan.com", StoreInfo{"KOGAN", "Kogan", "#Kogan"}},
	{"mydeal.com.au", StoreInfo{"MYDEAL", "MyDeal", "#MyDeal"}},
	{"officeworks.com.au", StoreInfo{"OFFICEWORKS", "Officeworks", "#Officeworks"}},
	{"ebay.com.au", StoreInfo{"EBAYAU", "eBay AU", "#eBayAU"}},
}

// ClassifyURL assigns a URL to a store bucket by matching it against the
// known domain patterns, falling back to the generic local bucket.
func ClassifyURL(u string) StoreInfo {
	s := strings.ToLower(u)
	for _, rule := range classifyRules {
		if strings.Contains(s, rule.pattern) {
			return rule.store
		}
	}
	return LocalStore
}

// BrowseMoreURL returns the store's public deals landing page, used for the
// secondary button on every post.
func BrowseMoreURL(tag string) string {
	switch tag {
	case "AMAZONAU":
		return "https://www.amazon.com.au/gp/goldbox"
	case "WOOLWORTHS":
		return "https://www.woolworths.com.au/shop/browse/specials"
	case "COLES":
		return "https://www.coles.com.au/offers"
	case "BIGW":
		return "https://www.bigw.com.au/deals"
	case "CHEMISTWAREHOUSE":
		return "https://www.chemistwarehouse.com.au/catalogue"
	case "JBHIFI":
		return "https://www.jbhifi.com.au/collections/this-weeks-hottest-deals"
	default:
		return "https://www.ozbargain.com.au/"
	}
}
