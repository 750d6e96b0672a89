package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-internship-automation/internal/models"
)

const defaultHeading = "Description"

// NoDescription is used when a provider sends no description at all.
func NoDescription() models.Description {
	return models.Description{{
		Heading: defaultHeading,
		Content: []models.Block{models.TextBlock("No description available")},
	}}
}

// ParseDescription splits provider HTML into sections. A div.h3 starts a
// section; p elements become text blocks and ul elements list blocks. Input
// without any section becomes a single Description section holding the raw
// input.
func ParseDescription(input string) models.Description {
	if strings.TrimSpace(input) == "" {
		return NoDescription()
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return rawDescription(input)
	}

	var sections models.Description
	current := -1
	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		switch {
		case s.Is("div.h3"):
			heading := strings.TrimSpace(s.Text())
			if heading == "" {
				heading = defaultHeading
			}
			current = indexOf(sections, heading)
			if current < 0 {
				sections = append(sections, models.Section{Heading: heading, Content: []models.Block{}})
				current = len(sections) - 1
			} else {
				sections[current].Content = []models.Block{}
			}
		case current < 0:
			return
		case s.Is("ul"):
			var items []string
			s.Find("li").Each(func(_ int, li *goquery.Selection) {
				if text := strings.TrimSpace(li.Text()); text != "" {
					items = append(items, text)
				}
			})
			if len(items) > 0 {
				sections[current].Content = append(sections[current].Content, models.ListBlock(items...))
			}
		case s.Is("p"):
			if text := strings.TrimSpace(s.Text()); text != "" {
				sections[current].Content = append(sections[current].Content, models.TextBlock(text))
			}
		}
	})

	if len(sections) == 0 {
		return rawDescription(input)
	}
	return sections
}

func rawDescription(input string) models.Description {
	return models.Description{{
		Heading: defaultHeading,
		Content: []models.Block{models.TextBlock(input)},
	}}
}

func indexOf(sections models.Description, heading string) int {
	for i, s := range sections {
		if s.Heading == heading {
			return i
		}
	}
	return -1
}
