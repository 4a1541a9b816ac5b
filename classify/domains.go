package classify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DomainLists holds the two unordered domain-suffix sets the disposition
// classifier consults: senders on the deny list are deleted, senders on the
// defer list are routed to read-later.
type DomainLists struct {
	Deny  []string `yaml:"spam_domains"`
	Defer []string `yaml:"later_domains"`
}

// DefaultDomainLists returns the built-in lists used when no domains file is
// present in the config directory.
func DefaultDomainLists() DomainLists {
	return DomainLists{
		Deny: []string{
			"marketing.example.com",
			"bounces.salesblast.io",
			"deals.couponfeed.net",
		},
		Defer: []string{
			"substack.com",
			"medium.com",
			"morningbrew.com",
		},
	}
}

// LoadDomainLists reads a domains YAML file. A missing file yields the
// defaults; a malformed one is an error so a typo cannot silently disable
// the deny list.
func LoadDomainLists(path string) (DomainLists, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultDomainLists(), nil
	}
	if err != nil {
		return DomainLists{}, fmt.Errorf("read domains file: %w", err)
	}

	var lists DomainLists
	if err := yaml.Unmarshal(data, &lists); err != nil {
		return DomainLists{}, fmt.Errorf("parse domains file: %w", err)
	}
	return lists, nil
}

func suffixMatch(domain string, suffixes []string) bool {
	if domain == "" {
		return false
	}
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(domain, suffix) {
			return true
		}
	}
	return false
}
