package portal

import (
	"go-internship-automation/internal/browser/browsertest"
	"go-internship-automation/internal/logging"
)

const resultsURL = "https://internshala.com/internships"

// fastTiming removes every fixed wait so flows run instantly against fakes.
func fastTiming() Timing {
	return Timing{}
}

func nopLog() *logging.Logger {
	return logging.Nop()
}

// card builds a results-page card as the apply loop sees it.
func card(title, stipend, href string) *browsertest.Element {
	c := browsertest.NewElement("").
		WithChild(".job-title", browsertest.NewElement(title)).
		WithChild(".location", browsertest.NewElement("Remote")).
		WithChild(".stipend", browsertest.NewElement(stipend)).
		WithChild(".duration", browsertest.NewElement("3 Months"))
	if href != "" {
		c.WithChild("a.view_detail_button", browsertest.NewElement("View details").WithAttr("href", href))
	}
	return c
}
