package extract

import "sort"

// techStack maps file extensions to technology labels. Content is not
// inspected, so binary files count too.
func (e *engine) techStack(inv inventory, sig *Signals) Fragment {
	seen := make(map[string]bool)
	for _, f := range inv.all {
		if label, ok := techByExtension[ext(f.Name)]; ok {
			seen[label] = true
		}
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	sig.TechStack = labels

	items := make([]string, len(labels))
	for i, label := range labels {
		items[i] = "- " + label
	}

	return Fragment{
		Title:       "Technical Stack",
		Items:       items,
		Placeholder: noTechPlaceholder,
	}
}
