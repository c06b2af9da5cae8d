package guardrail

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Category groups patterns under a single label reported in a verdict.
type Category struct {
	Name     string
	Patterns []*regexp.Regexp
}

// ContentCheck rejects text matching any pattern of its categories. It
// applies the same lists to input and output.
type ContentCheck struct {
	categories []Category
}

func NewContentCheck(categories ...Category) *ContentCheck {
	if len(categories) == 0 {
		categories = DefaultCategories()
	}
	return &ContentCheck{categories: categories}
}

// DefaultCategories returns the built-in blocklists.
func DefaultCategories() []Category {
	return []Category{
		{
			Name: "prompt_injection",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)ignore (all )?(the )?(previous|prior|above) instructions`),
				regexp.MustCompile(`(?i)disregard (your|the) (system )?prompt`),
				regexp.MustCompile(`(?i)reveal (your|the) system prompt`),
			},
		},
		{
			Name: "self_harm",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bhow (do i|to) (kill|hurt) myself\b`),
			},
		},
		{
			Name: "violence",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bhow (do i|to) (build|make) (a )?(bomb|explosive)s?\b`),
			},
		},
	}
}

func (c *ContentCheck) Name() string { return "content" }

func (c *ContentCheck) ValidateInput(_ context.Context, text string) (Result, error) {
	return c.match(text), nil
}

func (c *ContentCheck) ValidateOutput(_ context.Context, text string) (Result, error) {
	return c.match(text), nil
}

func (c *ContentCheck) match(text string) Result {
	for _, cat := range c.categories {
		for _, p := range cat.Patterns {
			if p.MatchString(text) {
				return Block(fmt.Sprintf("content matched %s policy", cat.Name), cat.Name)
			}
		}
	}
	return Pass()
}

var (
	emailPattern = regexp.MustCompile(`\b[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}\b`)
	ssnPattern   = regexp.MustCompile(`\b(\d{3})-(\d{2})-(\d{4})\b`)
	cardPattern  = regexp.MustCompile(`\b(?:\d[ -]?){12,18}\d\b`)
)

// PIICheck keeps personal data out of model responses. User input is not
// checked: users may share their own details.
type PIICheck struct {
	detectEmail bool
}

func NewPIICheck(detectEmail bool) *PIICheck {
	return &PIICheck{detectEmail: detectEmail}
}

func (c *PIICheck) Name() string { return "pii" }

func (c *PIICheck) ValidateInput(_ context.Context, _ string) (Result, error) {
	return Pass(), nil
}

func (c *PIICheck) ValidateOutput(_ context.Context, text string) (Result, error) {
	var found []string
	if m := ssnPattern.FindStringSubmatch(text); m != nil && validSSN(m[1], m[2], m[3]) {
		found = append(found, "ssn")
	}
	for _, m := range cardPattern.FindAllString(text, -1) {
		digits := strings.NewReplacer(" ", "", "-", "").Replace(m)
		if len(digits) >= 13 && len(digits) <= 19 && luhnCheck(digits) {
			found = append(found, "credit_card")
			break
		}
	}
	if c.detectEmail && emailPattern.MatchString(text) {
		found = append(found, "email")
	}
	if len(found) == 0 {
		return Pass(), nil
	}
	return Block("response contains personal data: "+strings.Join(found, ", "), found...), nil
}

func validSSN(area, group, serial string) bool {
	if area == "000" || area == "666" || area[0] == '9' {
		return false
	}
	return group != "00" && serial != "0000"
}

func luhnCheck(number string) bool {
	sum := 0
	alternate := false
	for i := len(number) - 1; i >= 0; i-- {
		digit := int(number[i] - '0')
		if alternate {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		alternate = !alternate
	}
	return sum%10 == 0
}
