package config

// Stores holds the data-driven tables consumed by the pipeline: affiliate
// deeplink prefixes keyed by store tag and the hand-authored static
// fallback entries.
type Stores struct {
	Affiliate      Affiliate     `yaml:"affiliate"`
	StaticFallback []StaticEntry `yaml:"static_fallback"`
}

// Affiliate maps store tags to deeplink prefixes. A prefix already ends in
// "url=" (or equivalent); the target URL is appended percent-encoded.
type Affiliate struct {
	Deeplinks map[string]string `yaml:"deeplinks"`
}

// StaticEntry is one placeholder deal published when every other tier runs
// dry: no price, generic landing page link.
type StaticEntry struct {
	Title string `yaml:"title"`
	Store string `yaml:"store"`
	URL   string `yaml:"url"`
}
