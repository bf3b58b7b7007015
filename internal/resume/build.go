package resume

import (
	"fmt"
	"strings"

	"github.com/AKupriichuk/CV-on-the-Go/internal/common"
	"github.com/AKupriichuk/CV-on-the-Go/internal/mapx"
)

const (
	defaultTemplate = "cv_basic"
	defaultLanguage = "en"
)

// personalFields is the single place where staged personal keys are mapped
// onto document field names.
var personalFields = []struct {
	staged string
	assign func(p *Personal, v string)
}{
	{"full_name", func(p *Personal, v string) { p.FullName = v }},
	{"email", func(p *Personal, v string) { p.Email = v }},
	{"phone", func(p *Personal, v string) { p.Phone = v }},
	{"handle", func(p *Personal, v string) { p.Handle = v }},
	{"summary", func(p *Personal, v string) { p.Summary = v }},
	{"linkedin_url", func(p *Personal, v string) { p.LinkedInURL = v }},
	{"github_url", func(p *Personal, v string) { p.GitHubURL = v }},
}

// Build derives Data from the accumulated context. Absent collections become
// empty slices; a missing or blank personal.full_name is the one hard
// validation failure. The context is never mutated.
func Build(ctx mapx.Map) (*Data, error) {
	data := &Data{
		Experience:   []Experience{},
		Education:    []Education{},
		Skills:       []string{},
		TemplateName: defaultTemplate,
		Language:     defaultLanguage,
	}

	personal, _ := ctx.GetMap("personal")
	for _, f := range personalFields {
		if v, ok := personal.GetString(f.staged); ok {
			f.assign(&data.Personal, v)
		}
	}
	if strings.TrimSpace(data.Personal.FullName) == "" {
		return nil, fmt.Errorf("%w: personal.full_name is required", common.ErrValidation)
	}

	if records, ok := ctx.GetList("experience"); ok {
		for _, rec := range records {
			m, ok := rec.(mapx.Map)
			if !ok {
				continue
			}
			data.Experience = append(data.Experience, experienceFromMap(m))
		}
	}

	if records, ok := ctx.GetList("education"); ok {
		for _, rec := range records {
			m, ok := rec.(mapx.Map)
			if !ok {
				continue
			}
			data.Education = append(data.Education, educationFromMap(m))
		}
	}

	if skills, ok := ctx.GetList("skills"); ok {
		for _, s := range skills {
			if v, ok := s.(mapx.String); ok {
				data.Skills = append(data.Skills, string(v))
			}
		}
	}

	return data, nil
}

func experienceFromMap(m mapx.Map) Experience {
	e := Experience{Description: []string{}}
	e.JobTitle, _ = m.GetString("job_title")
	e.Company, _ = m.GetString("company")
	e.StartDate, _ = m.GetString("start_date")
	if v, ok := m.GetString("end_date"); ok {
		e.EndDate = &v
	}
	if lines, ok := m.GetList("description"); ok {
		for _, line := range lines {
			if v, ok := line.(mapx.String); ok {
				e.Description = append(e.Description, string(v))
			}
		}
	}
	return e
}

func educationFromMap(m mapx.Map) Education {
	e := Education{}
	e.Degree, _ = m.GetString("degree")
	e.Institution, _ = m.GetString("institution")
	e.City, _ = m.GetString("city")
	e.YearFinished, _ = m.GetString("year_finished")
	return e
}
