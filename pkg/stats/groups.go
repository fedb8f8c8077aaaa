package stats

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kdwils/stargazer/pkg/types"
)

// ExtractGroups buckets resources by their group tag. Only resources one
// level below a namespace are considered; deeper descendants never join a
// group. Each grouped resource is copied and stamped with its owning
// namespace, its own relatives left untouched. Buckets keep insertion
// order internally; the returned groups are ordered by name using a
// locale-aware comparison.
func ExtractGroups(namespaces []types.ResourceNode) []types.GroupInfo {
	var order []string
	buckets := make(map[string][]types.ResourceNode)

	for _, ns := range namespaces {
		for _, child := range ns.Relatives {
			if child.Group == "" {
				continue
			}
			stamped := child
			stamped.Namespace = types.StrPtr(ns.Name)

			if _, ok := buckets[child.Group]; !ok {
				order = append(order, child.Group)
			}
			buckets[child.Group] = append(buckets[child.Group], stamped)
		}
	}

	groups := make([]types.GroupInfo, 0, len(order))
	for _, name := range order {
		groups = append(groups, types.GroupInfo{
			Name:      name,
			Resources: buckets[name],
		})
	}

	c := collate.New(language.Und)
	sort.SliceStable(groups, func(i, j int) bool {
		return c.CompareString(groups[i].Name, groups[j].Name) < 0
	})
	return groups
}
