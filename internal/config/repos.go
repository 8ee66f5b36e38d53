package config

import (
	"fmt"
	"os"
	"slices"
	"sort"

	"dx-metrics/internal/metrics"

	"gopkg.in/yaml.v3"
)

// RepoList is the repository inventory, grouped by organization.
type RepoList struct {
	Orgs map[string][]string `yaml:"orgs"`
}

// LoadRepos parses the repository inventory file.
func LoadRepos(path string) (*RepoList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading repos file: %w", err)
	}

	var list RepoList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing repos file %s: %w", path, err)
	}

	return &list, nil
}

// Select applies org, include, and exclude filters and returns the
// resulting repositories in deterministic order. Empty filters select
// everything.
func (r *RepoList) Select(orgs, include, exclude []string) []metrics.Repo {
	var result []metrics.Repo

	for _, org := range sortedOrgKeys(r.Orgs) {
		if len(orgs) > 0 && !slices.Contains(orgs, org) {
			continue
		}

		names := append([]string(nil), r.Orgs[org]...)
		sort.Strings(names)

		for _, name := range names {
			if len(include) > 0 && !slices.Contains(include, name) {
				continue
			}
			if slices.Contains(exclude, name) {
				continue
			}
			result = append(result, metrics.Repo{Org: org, Name: name})
		}
	}

	return result
}

func sortedOrgKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
