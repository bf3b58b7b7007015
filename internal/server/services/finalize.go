package services

import (
	"context"

	"github.com/AKupriichuk/CV-on-the-Go/internal/mapx"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/dialog"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/models"
)

// Staging keys hold one partially collected record while its sub-chain runs.
// They are removed in full by the finalize step, or cleared when the
// sub-chain restarts.
const (
	stagingExperience = "temp_experience"
	stagingEducation  = "temp_education"
)

// Field-mapping tables for shaping a staged record into its finished form.
// This is the only place the staged names are renamed, so the mapping stays
// auditable. The staged description is shaped separately: free text becomes
// a one-element list of description lines.
var (
	experienceFields = []fieldMapping{
		{staged: "company", finished: "company"},
		{staged: "position", finished: "job_title"},
		{staged: "period", finished: "start_date"},
	}
	educationFields = []fieldMapping{
		{staged: "institution", finished: "institution"},
		{staged: "degree", finished: "degree"},
		{staged: "year", finished: "year_finished"},
	}
)

type fieldMapping struct {
	staged   string
	finished string
}

// BeginExperience clears any previous experience staging and enters the
// experience sub-chain.
func (s *SessionService) BeginExperience(ctx context.Context, session *models.Session) error {
	return s.clearStaging(ctx, session, stagingExperience, dialog.StepWaitingExpCompany)
}

// BeginEducation clears any previous education staging and enters the
// education sub-chain.
func (s *SessionService) BeginEducation(ctx context.Context, session *models.Session) error {
	return s.clearStaging(ctx, session, stagingEducation, dialog.StepWaitingEduInstitution)
}

// BeginSkill enters the single-step skill chain. Skills have no staging
// phase.
func (s *SessionService) BeginSkill(ctx context.Context, session *models.Session) error {
	return s.Apply(ctx, session, nil, dialog.StepWaitingSkill)
}

func (s *SessionService) clearStaging(ctx context.Context, session *models.Session, key string, first dialog.Step) error {
	working := session.Context.Clone()
	if working == nil {
		working = mapx.Map{}
	}
	delete(working, key)
	return s.commit(ctx, session, working, first)
}

// FinalizeExperience moves a non-empty experience staging record into the
// experience collection and clears the staging key. Empty staging appends
// nothing. Either way the session comes to rest at IDLE. Deliberately not
// idempotent: the caller invokes it exactly once, on the sub-chain's
// terminal turn.
func (s *SessionService) FinalizeExperience(ctx context.Context, session *models.Session) error {
	return s.finalizeRecord(ctx, session, stagingExperience, "experience", experienceFields)
}

// FinalizeEducation is the education counterpart of FinalizeExperience.
func (s *SessionService) FinalizeEducation(ctx context.Context, session *models.Session) error {
	return s.finalizeRecord(ctx, session, stagingEducation, "education", educationFields)
}

func (s *SessionService) finalizeRecord(ctx context.Context, session *models.Session, stagingKey, collection string, fields []fieldMapping) error {
	working := session.Context.Clone()
	if working == nil {
		working = mapx.Map{}
	}

	if staged, ok := working.GetMap(stagingKey); ok && len(staged) > 0 {
		record := mapx.Map{}
		for _, f := range fields {
			if v, ok := staged.GetString(f.staged); ok {
				record[f.finished] = mapx.String(v)
			}
		}
		if v, ok := staged.GetString("description"); ok {
			record["description"] = mapx.List{mapx.String(v)}
		}

		list, _ := working.GetList(collection)
		working[collection] = append(list, record)
	}
	delete(working, stagingKey)

	return s.commit(ctx, session, working, dialog.StepIdle)
}

// AddSkill appends one skill to the skills sequence and forces IDLE. A skill
// is a single atomic value, so there is no staging phase to finalize.
func (s *SessionService) AddSkill(ctx context.Context, session *models.Session, text string) error {
	working := session.Context.Clone()
	if working == nil {
		working = mapx.Map{}
	}

	list, _ := working.GetList("skills")
	working["skills"] = append(list, mapx.String(text))

	return s.commit(ctx, session, working, dialog.StepIdle)
}
