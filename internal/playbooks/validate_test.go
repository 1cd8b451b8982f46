package playbooks

import (
	"testing"

	"github.com/solidwrite/pseo/internal/errors"
	"github.com/solidwrite/pseo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageWith(sections, faqs int) *models.Page {
	p := &models.Page{}
	for i := 0; i < sections; i++ {
		p.Content.Sections = append(p.Content.Sections, prose("h", "t"))
	}
	for i := 0; i < faqs; i++ {
		p.Content.FAQ = append(p.Content.FAQ, faq("q", "a"))
	}
	return p
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		sections int
		faqs     int
		reason   string
	}{
		{"admitted at floor", 2, 2, ""},
		{"admitted above floor", 6, 4, ""},
		{"one section", 1, 2, "insufficient sections (1 < 2)"},
		{"one faq", 2, 1, "insufficient faq (1 < 2)"},
		{"empty", 0, 0, "insufficient sections (0 < 2); insufficient faq (0 < 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := pageWith(tt.sections, tt.faqs)
			out, err := Validate(in)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Same(t, in, out)
				return
			}
			assert.Nil(t, out)
			assert.True(t, errors.IsThinContentError(err))
			assert.Equal(t, tt.reason, errors.SkipReason(err))
		})
	}
}

func TestValidateNil(t *testing.T) {
	_, err := Validate(nil)
	assert.True(t, errors.IsThinContentError(err))
}
