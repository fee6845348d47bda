// Package analytics computes skill frequency statistics over job postings.
package analytics

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okian/skillpulse/internal/domain/model"
)

// Query limits.
const (
	DefaultTopLimit         = 20
	MaxTopLimit             = 100
	DefaultPerLocationLimit = 10
	MaxPerLocationLimit     = 50
)

// keywords are matched as substrings of lowercased descriptions.
var keywords = []string{
	"python", "java", "javascript", "react", "node", "sql", "aws", "docker",
	"kubernetes", "git", "html", "css", "typescript", "angular", "vue",
	"mongodb", "postgresql", "mysql", "redis", "elasticsearch", "kafka",
	"machine learning", "deep learning", "tensorflow", "pytorch", "scikit-learn",
	"data science", "big data", "spark", "hadoop", "tableau", "power bi",
	"agile", "scrum", "ci/cd", "jenkins", "terraform", "ansible", "linux",
	"azure", "gcp", "microservices", "rest api", "graphql", "redux", "webpack",
}

var defaultSkills = []string{
	"Python", "JavaScript", "Java", "React", "SQL", "AWS", "Docker",
	"Git", "HTML", "CSS", "TypeScript", "Node.js", "MongoDB", "PostgreSQL",
	"Machine Learning", "Data Science", "Linux", "Kubernetes", "CI/CD", "REST API",
}

// DescriptionSkills returns the title-cased keywords found in description, in
// keyword list order.
func DescriptionSkills(description string) []string {
	if description == "" {
		return nil
	}
	lower := strings.ToLower(description)
	title := cases.Title(language.English)
	var out []string
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			out = append(out, title.String(k))
		}
	}
	return out
}

// TopSkills ranks skills from the skills field and description keywords.
// An empty result is replaced by a fixed placeholder list.
func TopSkills(records []model.JobRecord, limit int) []model.SkillCount {
	c := newCounter()
	for i := range records {
		c.add(records[i].SkillList()...)
	}
	for i := range records {
		c.add(DescriptionSkills(records[i].Description)...)
	}
	if top := c.top(limit); len(top) > 0 {
		return top
	}
	return DefaultSkills(limit)
}

// SkillsByLocation ranks skills-field entries per location, locations in
// first-seen order. Records without a location are ignored.
func SkillsByLocation(records []model.JobRecord, limit int) []model.LocationSkills {
	order := []string{}
	byLoc := make(map[string]*counter)
	for i := range records {
		loc := records[i].Location
		if loc == "" {
			continue
		}
		c, ok := byLoc[loc]
		if !ok {
			c = newCounter()
			byLoc[loc] = c
			order = append(order, loc)
		}
		c.add(records[i].SkillList()...)
	}

	out := make([]model.LocationSkills, 0, len(order))
	for _, loc := range order {
		out = append(out, model.LocationSkills{Location: loc, Skills: byLoc[loc].top(limit)})
	}
	return out
}

// DefaultSkills is the placeholder ranking for an empty dataset.
func DefaultSkills(limit int) []model.SkillCount {
	n := min(limit, len(defaultSkills))
	out := make([]model.SkillCount, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, model.SkillCount{
			Skill:      defaultSkills[i],
			Count:      (limit - i) * 10,
			Percentage: float64((limit - i) * 5),
		})
	}
	return out
}

// counter counts strings and remembers first-seen order for tie breaks.
type counter struct {
	counts map[string]int
	order  []string
	total  int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(items ...string) {
	for _, s := range items {
		if _, ok := c.counts[s]; !ok {
			c.order = append(c.order, s)
		}
		c.counts[s]++
		c.total++
	}
}

func (c *counter) top(limit int) []model.SkillCount {
	ranked := make([]string, len(c.order))
	copy(ranked, c.order)
	sort.SliceStable(ranked, func(i, j int) bool { return c.counts[ranked[i]] > c.counts[ranked[j]] })
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]model.SkillCount, 0, len(ranked))
	for _, s := range ranked {
		n := c.counts[s]
		out = append(out, model.SkillCount{
			Skill:      s,
			Count:      n,
			Percentage: math.Round(float64(n)/float64(c.total)*100*100) / 100,
		})
	}
	return out
}
