// Package portal drives the job portal in a browser: login, filters, listing
// extraction and the apply loop.
package portal

import (
	"fmt"
	"os"

	"go-internship-automation/internal/models"

	"gopkg.in/yaml.v3"
)

// Selectors maps every DOM lookup the portal flows make to an ordered cascade
// of CSS selectors. The first selector that matches wins.
type Selectors struct {
	Version  string           `yaml:"version"`
	Login    LoginSelectors   `yaml:"login"`
	Overlay  OverlaySelectors `yaml:"overlay"`
	Search   SearchSelectors  `yaml:"search"`
	Filters  FilterSelectors  `yaml:"filters"`
	Cards    CardSelectors    `yaml:"cards"`
	Listings ListingSelectors `yaml:"listings"`
	Apply    ApplySelectors   `yaml:"apply"`
}

type LoginSelectors struct {
	Email            []string `yaml:"email"`
	Password         []string `yaml:"password"`
	Submit           []string `yaml:"submit"`
	Form             []string `yaml:"form"`
	CaptchaCheckbox  []string `yaml:"captcha_checkbox"`
	CaptchaChallenge []string `yaml:"captcha_challenge"`
	CaptchaInvisible []string `yaml:"captcha_invisible"`
	Errors           []string `yaml:"errors"`
	// LoggedOut is present only when the visitor is not authenticated.
	LoggedOut string `yaml:"logged_out"`
}

type OverlaySelectors struct {
	Overlays []string `yaml:"overlays"`
	Close    []string `yaml:"close"`
}

// SearchSelectors drive the keyword search used by recommendation scraping.
type SearchSelectors struct {
	Box      []string `yaml:"box"`
	NextPage []string `yaml:"next_page"`
}

type FilterSelectors struct {
	Keywords []string                        `yaml:"keywords"`
	Location []string                        `yaml:"location"`
	Remote   []string                        `yaml:"remote"`
	Stipend  []string                        `yaml:"stipend"`
	Duration []string                        `yaml:"duration"`
	Search   map[models.ListingType][]string `yaml:"search"`
}

// CardSelectors locate fields on the results page the apply loop works on.
type CardSelectors struct {
	Containers  map[models.ListingType][]string `yaml:"containers"`
	Title       []string                        `yaml:"title"`
	Location    []string                        `yaml:"location"`
	Stipend     []string                        `yaml:"stipend"`
	Duration    []string                        `yaml:"duration"`
	ApplyButton []string                        `yaml:"apply_button"`
}

// ListingSelectors locate fields during recommendation scraping.
type ListingSelectors struct {
	Containers map[models.ListingType][]string `yaml:"containers"`
	Title      []string                        `yaml:"title"`
	Company    []string                        `yaml:"company"`
	Department []string                        `yaml:"department"`
	Location   []string                        `yaml:"location"`
	Stipend    []string                        `yaml:"stipend"`
	Duration   []string                        `yaml:"duration"`
	Link       []string                        `yaml:"link"`
}

type ApplySelectors struct {
	// URLPattern marks a redirect to an application form.
	URLPattern string   `yaml:"url_pattern"`
	Form       []string `yaml:"form"`
	FileInput  []string `yaml:"file_input"`
	Submit     []string `yaml:"submit"`
}

// DefaultSelectors is the built-in mapping for internshala.com.
func DefaultSelectors() *Selectors {
	return &Selectors{
		Version: "2024-06",
		Login: LoginSelectors{
			Email:            []string{"#email", `input[name="email"]`},
			Password:         []string{"#password", `input[name="password"]`},
			Submit:           []string{`button[type="submit"]`},
			Form:             []string{"form"},
			CaptchaCheckbox:  []string{"#recaptcha-anchor"},
			CaptchaChallenge: []string{".recaptcha-challenge", `iframe[src*="recaptcha/api2/bframe"]`},
			CaptchaInvisible: []string{`.g-recaptcha[style*="visibility: hidden"]`},
			Errors:           []string{".error-message", ".alert-danger", "#error"},
			LoggedOut:        "#loginModal",
		},
		Overlay: OverlaySelectors{
			Overlays: []string{".modal-backdrop", ".popup-overlay", ".overlay", ".modal", ".intershala-modal"},
			Close:    []string{".modal-close", ".close", `[data-dismiss="modal"]`, ".intershala-close"},
		},
		Search: SearchSelectors{
			Box:      []string{"#keywords", `input[name="keywords"]`, "#search_internships", ".search-box input"},
			NextPage: []string{".pagination .next", ".next-page", "a.next"},
		},
		Filters: FilterSelectors{
			Keywords: []string{"#keywords"},
			Location: []string{"#location"},
			Remote:   []string{"#remote_filter", "#work_from_home", `[data-remote="true"]`, `label[for="remote"]`},
			Stipend:  []string{"#stipend"},
			Duration: []string{"#duration"},
			Search: map[models.ListingType][]string{
				models.Internship: {"#search_internships_button"},
				models.Job:        {"#search_jobs_button"},
			},
		},
		Cards: CardSelectors{
			Containers: map[models.ListingType][]string{
				models.Internship: {".internship_meta"},
				models.Job:        {".job_meta"},
			},
			Title:    []string{".job-title", ".internship_title", "h3", ".heading_4"},
			Location: []string{".location", ".internship_location", ".location_link"},
			Stipend:  []string{".stipend", ".internship_stipend", ".stipend_container"},
			Duration: []string{".duration", ".internship_duration", ".duration_text"},
			ApplyButton: []string{
				"a.view_detail_button", "button.view_detail_button",
				"a.internship_apply_button", "button.internship_apply_button",
				`[data-href*="/apply"]`, ".btn-apply", ".apply-now", "a.btn", ".btn-primary", ".apply-button",
			},
		},
		Listings: ListingSelectors{
			Containers: map[models.ListingType][]string{
				models.Internship: {".internship_meta", ".individual_internship", ".internship-card", ".internship_list_item"},
				models.Job:        {".job_meta", ".individual_internship", ".job-card"},
			},
			Title:      []string{".company_name", ".internship-title", ".job-title", ".title", ".heading_4_5 a"},
			Company:    []string{".company_name", ".organization", ".company", ".view_detail_button"},
			Department: []string{".internship-meta__category", ".category"},
			Location:   []string{".location", ".location_link"},
			Stipend:    []string{".stipend", ".salary", ".stipend_container span"},
			Duration:   []string{".duration", ".duration_text"},
			Link:       []string{`a[href*="/internship/detail"]`, `a[href*="/job/detail"]`, "a.view_detail_button"},
		},
		Apply: ApplySelectors{
			URLPattern: "/apply/",
			Form:       []string{"form.apply-form", "form#apply-form", ".apply-form"},
			FileInput:  []string{`input[type="file"]`},
			Submit:     []string{`button[type="submit"]`, ".apply-now-submit", ".btn-submit", ".intershala-submit"},
		},
	}
}

// LoadSelectors overlays a YAML file on the defaults. Keys missing from the
// file keep their default cascade. An empty path returns the defaults.
func LoadSelectors(path string) (*Selectors, error) {
	sel := DefaultSelectors()
	if path == "" {
		return sel, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read selectors: %w", err)
	}
	if err := yaml.Unmarshal(data, sel); err != nil {
		return nil, fmt.Errorf("parse selectors %s: %w", path, err)
	}
	return sel, nil
}
