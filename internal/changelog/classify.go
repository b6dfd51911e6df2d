package changelog

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule assigns a category name to any decorated message its predicate accepts.
type Rule struct {
	Name  string
	Match func(message string) bool
}

// Rules is an ordered rule table. Order is both match priority and
// display order.
type Rules []Rule

// markerRule builds a rule that matches when any marker occurs anywhere in
// the message. Markers are matched literally and case-sensitively.
func markerRule(name string, markers ...string) Rule {
	quoted := make([]string, len(markers))
	for i, m := range markers {
		quoted[i] = "(" + regexp.QuoteMeta(m) + ")"
	}
	re := regexp.MustCompile(strings.Join(quoted, "|"))
	return Rule{Name: name, Match: re.MatchString}
}

// DefaultRules returns a fresh copy of the fixed gitmoji rule table.
func DefaultRules() Rules {
	return Rules{
		markerRule("New feature", ":sparkles:", "✨", "🎉", "🚀", "🆕"),
		markerRule("Bug fix", ":bug:", "🐛"),
		markerRule("UI improvements", ":art:", "🎨", "📝", "💄", "🔖"),
		markerRule("Internal", ":construction:", "🚧", "👷", "🔧", "🔨", "🌐", "🛠️", "🔩"),
	}
}

// Classifier sorts raw commit lines into categories using an ordered rule
// table. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	rules Rules
	index map[string]int
}

// NewClassifier creates a classifier over a private copy of rules.
func NewClassifier(rules Rules) *Classifier {
	owned := make(Rules, len(rules))
	copy(owned, rules)

	index := make(map[string]int, len(owned))
	for i, r := range owned {
		if _, ok := index[r.Name]; !ok {
			index[r.Name] = i
		}
	}

	return &Classifier{rules: owned, index: index}
}

// Decorate splits a raw "<hash> <message...>" line and appends a
// back-reference to the hash: message + " ([hash](#))".
// The message is everything after the single separator following the hash,
// so a bare hash yields an empty message.
func Decorate(line string) (hash, decorated string) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)

	message := ""
	hash = line
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		hash = line[:i]
		_, size := utf8.DecodeRuneInString(line[i:])
		message = line[i+size:]
	}

	return hash, message + " ([" + hash + "](#))"
}

// Classify returns the name of the first rule matching the decorated
// message, or OtherCategory when none does.
func (c *Classifier) Classify(decorated string) string {
	for _, r := range c.rules {
		if r.Match != nil && r.Match(decorated) {
			return r.Name
		}
	}
	return OtherCategory
}

// Categorize decorates and classifies each line, grouping them into
// categories ordered by rule table position with OtherCategory last.
// Lines keep their arrival order inside each category.
func (c *Classifier) Categorize(lines []string) []Category {
	var categories []Category
	positions := make(map[string]int)

	for _, line := range lines {
		_, decorated := Decorate(line)
		name := c.Classify(decorated)

		if pos, ok := positions[name]; ok {
			categories[pos].Commits = append(categories[pos].Commits, decorated)
			continue
		}
		positions[name] = len(categories)
		categories = append(categories, Category{Name: name, Commits: []string{decorated}})
	}

	c.sortCategories(categories)
	return categories
}

// rank orders a category name: rule index for known names, OtherCategory
// after everything else. Names outside the table sort before Other.
func (c *Classifier) rank(name string) int {
	if name == OtherCategory {
		return len(c.rules) + 1
	}
	if i, ok := c.index[name]; ok {
		return i
	}
	return len(c.rules)
}

func (c *Classifier) sortCategories(categories []Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		return c.rank(categories[i].Name) < c.rank(categories[j].Name)
	})
}
