package grouping

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/l1jgo/navigator/internal/nav"
)

// Label groups same-named entities of the selected categories, such as
// several stacks of the same item on the ground. Names compare
// case-insensitively. The representative is the member nearest to the
// observer.
type Label struct {
	categories map[nav.Category]struct{}
}

func NewLabel(categories ...nav.Category) *Label {
	l := &Label{categories: make(map[nav.Category]struct{}, len(categories))}
	for _, c := range categories {
		l.categories[c] = struct{}{}
	}
	return l
}

func (l *Label) Name() string { return "label" }

func (l *Label) GroupKey(e *nav.Entity) (string, error) {
	if _, ok := l.categories[e.Category]; !ok {
		return "", nil
	}
	name := strings.Join(strings.Fields(e.Name), " ")
	if name == "" {
		return "", nil
	}
	// Casers are stateful; one per call.
	return e.Category.String() + ":" + cases.Fold().String(name), nil
}

func (l *Label) Representative(members []*nav.Entity, ref nav.Position) *nav.Entity {
	return nav.Nearest(members, ref)
}
