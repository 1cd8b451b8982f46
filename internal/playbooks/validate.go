// internal/playbooks/validate.go
package playbooks

import (
	"fmt"
	"strings"

	"github.com/solidwrite/pseo/internal/errors"
	"github.com/solidwrite/pseo/internal/models"
)

// Content-depth floor for a servable page.
const (
	MinSections = 2
	MinFAQ      = 2
)

// Validate admits page iff it has at least MinSections sections and MinFAQ
// FAQ entries. It does not look at prose length, keywords or markup.
func Validate(page *models.Page) (*models.Page, error) {
	if page == nil {
		return nil, errors.NewThinContentError("empty page")
	}

	var problems []string
	if n := len(page.Content.Sections); n < MinSections {
		problems = append(problems, fmt.Sprintf("insufficient sections (%d < %d)", n, MinSections))
	}
	if n := len(page.Content.FAQ); n < MinFAQ {
		problems = append(problems, fmt.Sprintf("insufficient faq (%d < %d)", n, MinFAQ))
	}
	if len(problems) > 0 {
		return nil, errors.NewThinContentError(strings.Join(problems, "; "))
	}

	return page, nil
}
