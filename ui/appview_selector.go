package ui

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	appmodel "poassist/model"
)

// matchModel resolves a /model query. An exact id wins; otherwise the
// query is fuzzy-matched against ids and display names. More than one
// match is returned as candidates for the user to pick from.
func matchModel(query string) (appmodel.ModelSelection, []appmodel.ModelSelection, error) {
	if sel, err := appmodel.ParseModelSelection(query); err == nil {
		return sel, nil, nil
	}

	all := appmodel.AllModelSelections()
	targets := make([]string, len(all))
	for i, sel := range all {
		targets[i] = string(sel) + " " + strings.ToLower(sel.Info().Name)
	}

	matches := fuzzy.Find(strings.ToLower(strings.TrimSpace(query)), targets)
	switch len(matches) {
	case 0:
		return "", nil, fmt.Errorf("no model matches %q", query)
	case 1:
		return all[matches[0].Index], nil, nil
	}

	candidates := make([]appmodel.ModelSelection, len(matches))
	for i, m := range matches {
		candidates[i] = all[m.Index]
	}
	return "", candidates, nil
}

// renderModelList lists selections with the current one marked.
func renderModelList(sels []appmodel.ModelSelection, current appmodel.ModelSelection) string {
	var b strings.Builder
	for i, sel := range sels {
		if i > 0 {
			b.WriteByte('\n')
		}
		marker := "  "
		if sel == current {
			marker = "● "
		}
		info := sel.Info()
		fmt.Fprintf(&b, "%s%-14s %s (%s)", marker, sel, info.Name, info.Provider)
	}
	return b.String()
}
