// internal/models/sitemap.go
package models

import "encoding/xml"

// SitemapNamespace is the sitemaps.org schema namespace.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapEntry is one <url> of the sitemap.
type SitemapEntry struct {
	Loc        string  `json:"loc" xml:"loc"`
	LastMod    string  `json:"lastmod" xml:"lastmod"`
	ChangeFreq string  `json:"changefreq" xml:"changefreq"`
	Priority   float64 `json:"priority" xml:"priority"`
}

// URLSet is the sitemap XML document root.
type URLSet struct {
	XMLName xml.Name       `xml:"urlset"`
	Xmlns   string         `xml:"xmlns,attr"`
	URLs    []SitemapEntry `xml:"url"`
}
