// Package bot routes inbound chat updates through the dialog state machine.
// The engine is transport-agnostic: the webhook handler (or any other
// adapter) feeds it Updates and sends the Replies back over the wire.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AKupriichuk/CV-on-the-Go/internal/common"
	"github.com/AKupriichuk/CV-on-the-Go/internal/logging"
	"github.com/AKupriichuk/CV-on-the-Go/internal/mapx"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/dialog"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/models"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/services"
)

// Update is one inbound chat message together with the sender's profile.
type Update struct {
	ChatID    int64  `json:"chat_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Text      string `json:"text"`
}

// Reply is the turn's outcome. Document is set only by a successful
// /generate.
type Reply struct {
	Text     string
	Document *services.GeneratedDocument
}

const (
	msgUnknownCommand = "I don't know that command. Try /start, /add_experience, /add_education, /add_skill or /generate."
	msgStateError     = "Your session state is out of date. Please /start again."
	msgInternalError  = "Something went wrong. Please try again."
	msgDocumentReady  = "Your résumé is ready!"
)

type Engine struct {
	sessions  *services.SessionService
	documents *services.DocumentService
	logger    logging.Logger
}

func NewEngine(sessions *services.SessionService, documents *services.DocumentService, logger logging.Logger) *Engine {
	return &Engine{sessions: sessions, documents: documents, logger: logger}
}

// Handle processes one turn to completion. Every outcome, including internal
// failures, becomes a user-visible reply; internal causes are logged, never
// put on the wire.
func (e *Engine) Handle(ctx context.Context, u Update) *Reply {
	user, err := e.sessions.GetOrCreateUser(ctx, services.Identity{
		ExternalID: u.ChatID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Username:   u.Username,
	})
	if err != nil {
		e.logger.Error(ctx, "get or create user", "chat_id", u.ChatID, "error", err)
		return &Reply{Text: msgInternalError}
	}

	session, err := e.sessions.GetSession(ctx, user.ID)
	if err != nil {
		e.logger.Error(ctx, "load session", "user_id", user.ID, "error", err)
		return &Reply{Text: msgInternalError}
	}

	text := strings.TrimSpace(u.Text)
	if strings.HasPrefix(text, "/") {
		return e.handleCommand(ctx, user, session, text)
	}
	return e.handleText(ctx, user, session, u, text)
}

func (e *Engine) handleCommand(ctx context.Context, user *models.User, session *models.Session, text string) *Reply {
	cmd := strings.ToLower(strings.Fields(text)[0])

	switch cmd {
	case "/start":
		// The greeting collapses START into WAITING_NAME in the same turn.
		trans, _ := dialog.Lookup(dialog.StepStart)
		if err := e.sessions.Apply(ctx, session, nil, trans.Next); err != nil {
			e.logger.Error(ctx, "start dialog", "user_id", user.ID, "error", err)
			return &Reply{Text: msgInternalError}
		}
		return &Reply{Text: trans.Prompt}

	case "/add_experience":
		return e.beginChain(ctx, user, session, e.sessions.BeginExperience)

	case "/add_education":
		return e.beginChain(ctx, user, session, e.sessions.BeginEducation)

	case "/add_skill":
		return e.beginChain(ctx, user, session, e.sessions.BeginSkill)

	case "/generate":
		return e.generate(ctx, user, session)
	}

	return &Reply{Text: msgUnknownCommand}
}

func (e *Engine) beginChain(ctx context.Context, user *models.User, session *models.Session, begin func(context.Context, *models.Session) error) *Reply {
	if err := begin(ctx, session); err != nil {
		e.logger.Error(ctx, "begin sub-chain", "user_id", user.ID, "error", err)
		return &Reply{Text: msgInternalError}
	}
	trans, err := dialog.Lookup(session.CurrentStep)
	if err != nil {
		return &Reply{Text: msgStateError}
	}
	return &Reply{Text: trans.Prompt}
}

func (e *Engine) generate(ctx context.Context, user *models.User, session *models.Session) *Reply {
	doc, err := e.documents.Generate(ctx, user, session)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			return &Reply{Text: fmt.Sprintf("Can't generate the résumé yet: %v", err)}
		}
		e.logger.Error(ctx, "generate document", "user_id", user.ID, "error", err)
		return &Reply{Text: "Could not generate the résumé. Please try again later."}
	}
	return &Reply{Text: msgDocumentReady, Document: doc}
}

func (e *Engine) handleText(ctx context.Context, user *models.User, session *models.Session, u Update, text string) *Reply {
	trans, err := dialog.Lookup(session.CurrentStep)
	if err != nil {
		// Persisted step predates the running step table. The turn is lost.
		e.logger.Warn(ctx, "unknown dialog step", "user_id", user.ID, "step", string(session.CurrentStep))
		return &Reply{Text: msgStateError}
	}

	switch session.CurrentStep {
	case dialog.StepIdle:
		// Free text while idle maps to no field. Guidance only, no mutation.
		return &Reply{Text: trans.Prompt}

	case dialog.StepStart:
		// First contact without /start. Greet and start collecting.
		if err := e.sessions.Apply(ctx, session, nil, trans.Next); err != nil {
			e.logger.Error(ctx, "start dialog", "user_id", user.ID, "error", err)
			return &Reply{Text: msgInternalError}
		}
		return &Reply{Text: trans.Prompt}

	case dialog.StepWaitingSkill:
		if err := e.sessions.AddSkill(ctx, session, text); err != nil {
			e.logger.Error(ctx, "add skill", "user_id", user.ID, "error", err)
			return &Reply{Text: msgInternalError}
		}

	default:
		consumed := session.CurrentStep
		if err := e.sessions.Apply(ctx, session, updatesFor(consumed, text, u.Username), trans.Next); err != nil {
			e.logger.Error(ctx, "apply update", "user_id", user.ID, "step", string(consumed), "error", err)
			return &Reply{Text: msgInternalError}
		}
		if err := e.finalizeIfClosing(ctx, session, consumed); err != nil {
			e.logger.Error(ctx, "finalize record", "user_id", user.ID, "error", err)
			return &Reply{Text: msgInternalError}
		}
	}

	next, err := dialog.Lookup(session.CurrentStep)
	if err != nil {
		return &Reply{Text: msgStateError}
	}
	return &Reply{Text: next.Prompt}
}

// finalizeIfClosing moves the staged record into its collection when the turn
// just consumed a sub-chain's terminal input. Keyed on the consumed step, not
// on staging presence, so a stranded staging mapping from an abandoned chain
// is never finalized by an unrelated turn.
func (e *Engine) finalizeIfClosing(ctx context.Context, session *models.Session, consumed dialog.Step) error {
	switch consumed {
	case dialog.StepWaitingExpDesc:
		return e.sessions.FinalizeExperience(ctx, session)
	case dialog.StepWaitingEduYear:
		return e.sessions.FinalizeEducation(ctx, session)
	}
	return nil
}

const (
	stagingKeyExperience = "temp_experience"
	stagingKeyEducation  = "temp_education"
)

// updatesFor shapes one free-text input into the merge payload for the step
// that consumed it. Contacts are the one multi-field input: email and phone
// split on the first comma, the chat handle piggybacks on the same turn.
func updatesFor(step dialog.Step, text, username string) mapx.Map {
	switch step {
	case dialog.StepWaitingName:
		return mapx.Map{"personal": mapx.Map{"full_name": mapx.String(text)}}

	case dialog.StepWaitingContacts:
		personal := mapx.Map{}
		email, phone, _ := strings.Cut(text, ",")
		if v := strings.TrimSpace(email); v != "" {
			personal["email"] = mapx.String(v)
		}
		if v := strings.TrimSpace(phone); v != "" {
			personal["phone"] = mapx.String(v)
		}
		if username != "" {
			personal["handle"] = mapx.String("@" + username)
		}
		return mapx.Map{"personal": personal}

	case dialog.StepWaitingSummary:
		return mapx.Map{"personal": mapx.Map{"summary": mapx.String(text)}}

	case dialog.StepWaitingExpCompany:
		return stage(stagingKeyExperience, "company", text)
	case dialog.StepWaitingExpPosition:
		return stage(stagingKeyExperience, "position", text)
	case dialog.StepWaitingExpPeriod:
		return stage(stagingKeyExperience, "period", text)
	case dialog.StepWaitingExpDesc:
		return stage(stagingKeyExperience, "description", text)

	case dialog.StepWaitingEduInstitution:
		return stage(stagingKeyEducation, "institution", text)
	case dialog.StepWaitingEduDegree:
		return stage(stagingKeyEducation, "degree", text)
	case dialog.StepWaitingEduYear:
		return stage(stagingKeyEducation, "year", text)
	}
	return nil
}

func stage(stagingKey, field, text string) mapx.Map {
	return mapx.Map{stagingKey: mapx.Map{field: mapx.String(text)}}
}
