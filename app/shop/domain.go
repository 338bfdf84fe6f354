package shop

import (
	"regexp"
	"strings"
)

const platformSuffix = ".myshopify.com"

var domainDecoration = regexp.MustCompile(`(https?://|\.myshopify\.com(.*)?)`)

// NameToDomain turns a shop name into its platform domain. Values that are
// already platform domains are returned as is.
func NameToDomain(name string) string {
	if strings.Contains(name, platformSuffix) {
		return name
	}
	return name + platformSuffix
}

// DomainToName strips the scheme and platform suffix from a shop domain.
func DomainToName(domain string) string {
	return domainDecoration.ReplaceAllString(domain, "")
}
