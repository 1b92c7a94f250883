package core

import (
	"strings"

	"scout/scout/agents/configs"
)

// Resolver maps queries to well-known sites without calling the model.
type Resolver struct {
	sites []configs.Site
	rules []configs.Rule
}

func NewResolver(cfg *configs.AgentConfig) *Resolver {
	return &Resolver{sites: cfg.Sites, rules: cfg.Rules}
}

// Resolve returns the URL of the first site keyword contained in the query,
// then tries the compound rules in order.
func (r *Resolver) Resolve(query string) (string, bool) {
	q := strings.ToLower(query)
	for _, s := range r.sites {
		if strings.Contains(q, s.Keyword) {
			return s.URL, true
		}
	}
	for _, rule := range r.rules {
		if len(rule.Keywords) > 0 && containsAll(q, rule.Keywords) {
			return rule.URL, true
		}
	}
	return "", false
}

func containsAll(q string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(q, k) {
			return false
		}
	}
	return true
}
