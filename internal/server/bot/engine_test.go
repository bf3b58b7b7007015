package bot

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AKupriichuk/CV-on-the-Go/internal/logging"
	"github.com/AKupriichuk/CV-on-the-Go/internal/mapx"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/config"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/dialog"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/models"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/render"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/repositories/repomanager"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var testDBSeq atomic.Int64

type fixture struct {
	engine   *Engine
	sessions *services.SessionService
	db       *sql.DB
}

type stubRenderer struct{}

func (stubRenderer) RenderHTMLToPDF(context.Context, string) ([]byte, error) {
	return []byte("%PDF-1.7 stub"), nil
}

var _ render.Renderer = stubRenderer{}

func setup(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:bot_tests_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			external_id INTEGER NOT NULL UNIQUE,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			last_active_at TIMESTAMP NOT NULL
		);
		CREATE TABLE sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			current_step TEXT NOT NULL,
			context TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);
		CREATE TABLE documents (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			storage_key TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		);
	`)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DownloadTokenValidityDuration = time.Minute

	m := repomanager.NewPostgresRepositoryManager()
	sessions := services.NewSessionService(db, m)
	documents := services.NewDocumentService(db, m, stubRenderer{}, cfg)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	return &fixture{
		engine:   NewEngine(sessions, documents, logger),
		sessions: sessions,
		db:       db,
	}
}

func jane(text string) Update {
	return Update{ChatID: 42, FirstName: "Jane", LastName: "Doe", Username: "jane_doe", Text: text}
}

func (f *fixture) session(t *testing.T) *models.Session {
	t.Helper()
	ctx := context.Background()
	user, err := f.sessions.GetOrCreateUser(ctx, services.Identity{ExternalID: 42})
	require.NoError(t, err)
	session, err := f.sessions.GetSession(ctx, user.ID)
	require.NoError(t, err)
	return session
}

func TestHandle_StartGreetsAndWaitsForName(t *testing.T) {
	f := setup(t)

	reply := f.engine.Handle(context.Background(), jane("/start"))

	assert.Contains(t, reply.Text, "full name")
	assert.Equal(t, dialog.StepWaitingName, f.session(t).CurrentStep)
}

func TestHandle_UnknownCommand(t *testing.T) {
	f := setup(t)

	reply := f.engine.Handle(context.Background(), jane("/frobnicate"))

	assert.Equal(t, msgUnknownCommand, reply.Text)
}

func TestHandle_IdleFreeTextIsGuidanceOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.engine.Handle(ctx, jane("/start"))
	f.engine.Handle(ctx, jane("Jane Doe"))
	f.engine.Handle(ctx, jane("jane@x.com, 555"))
	f.engine.Handle(ctx, jane("Engineer."))
	before := f.session(t).Context

	reply := f.engine.Handle(ctx, jane("hello?"))

	assert.Contains(t, reply.Text, "/add_experience")
	assert.Equal(t, before, f.session(t).Context, "idle input must not touch the context")
}

func TestHandle_ContactsTurnSplitsEmailPhoneAndHandle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.engine.Handle(ctx, jane("/start"))
	f.engine.Handle(ctx, jane("Jane Doe"))
	f.engine.Handle(ctx, jane("jane@x.com, 555"))

	personal, ok := f.session(t).Context.GetMap("personal")
	require.True(t, ok)
	email, _ := personal.GetString("email")
	phone, _ := personal.GetString("phone")
	handle, _ := personal.GetString("handle")
	assert.Equal(t, "jane@x.com", email)
	assert.Equal(t, "555", phone)
	assert.Equal(t, "@jane_doe", handle)
}

func TestHandle_SkillFlow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.engine.Handle(ctx, jane("/start"))

	reply := f.engine.Handle(ctx, jane("/add_skill"))
	assert.Contains(t, reply.Text, "skill")

	f.engine.Handle(ctx, jane("Go"))

	session := f.session(t)
	assert.Equal(t, dialog.StepIdle, session.CurrentStep)
	skills, ok := session.Context.GetList("skills")
	require.True(t, ok)
	assert.Equal(t, mapx.List{mapx.String("Go")}, skills)
}

func TestHandle_UnknownStepAsksForRestart(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.engine.Handle(ctx, jane("/start"))

	_, err := f.db.Exec(`UPDATE sessions SET current_step = 'WAITING_GONE'`)
	require.NoError(t, err)

	reply := f.engine.Handle(ctx, jane("some text"))

	assert.Equal(t, msgStateError, reply.Text)
	assert.Empty(t, f.session(t).Context, "a lost turn must not mutate the context")
}

func TestHandle_GenerateWithoutNameReportsValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.engine.Handle(ctx, jane("/start"))

	reply := f.engine.Handle(ctx, jane("/generate"))

	assert.Contains(t, reply.Text, "full_name")
	assert.Nil(t, reply.Document)
}

func TestHandle_SummaryTurnDoesNotFinalizeStrandedStaging(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.engine.Handle(ctx, jane("/start"))
	f.engine.Handle(ctx, jane("Jane Doe"))
	f.engine.Handle(ctx, jane("jane@x.com, 555"))

	// abandon an experience chain halfway
	f.engine.Handle(ctx, jane("/add_experience"))
	f.engine.Handle(ctx, jane("Acme"))

	// restart the main chain and ride it to IDLE
	f.engine.Handle(ctx, jane("/start"))
	f.engine.Handle(ctx, jane("Jane Doe"))
	f.engine.Handle(ctx, jane("jane@x.com, 555"))
	f.engine.Handle(ctx, jane("Engineer."))

	session := f.session(t)
	assert.Equal(t, dialog.StepIdle, session.CurrentStep)
	_, ok := session.Context.GetList("experience")
	assert.False(t, ok, "abandoned staging must not be finalized by the summary turn")
	_, ok = session.Context.GetMap("temp_experience")
	assert.True(t, ok, "abandoned staging stays until its chain restarts")
}

func TestHandle_EndToEndScenario(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	reply := f.engine.Handle(ctx, jane("/start"))
	assert.Contains(t, reply.Text, "full name")

	reply = f.engine.Handle(ctx, jane("Jane Doe"))
	assert.Contains(t, reply.Text, "email")

	reply = f.engine.Handle(ctx, jane("jane@x.com, 555"))
	assert.Contains(t, reply.Text, "summary")

	reply = f.engine.Handle(ctx, jane("Engineer."))
	assert.Contains(t, reply.Text, "/add_experience")
	assert.Equal(t, dialog.StepIdle, f.session(t).CurrentStep)

	reply = f.engine.Handle(ctx, jane("/add_experience"))
	assert.Contains(t, reply.Text, "company")
	f.engine.Handle(ctx, jane("Acme"))
	f.engine.Handle(ctx, jane("Engineer"))
	f.engine.Handle(ctx, jane("2020-2022"))
	f.engine.Handle(ctx, jane("Built things"))

	session := f.session(t)
	assert.Equal(t, dialog.StepIdle, session.CurrentStep)
	experience, ok := session.Context.GetList("experience")
	require.True(t, ok)
	require.Len(t, experience, 1)
	record, ok := experience[0].(mapx.Map)
	require.True(t, ok)
	company, _ := record.GetString("company")
	assert.Equal(t, "Acme", company)
	title, _ := record.GetString("job_title")
	assert.Equal(t, "Engineer", title)

	reply = f.engine.Handle(ctx, jane("/generate"))
	require.NotNil(t, reply.Document)
	assert.Equal(t, msgDocumentReady, reply.Text)
	assert.Equal(t, "CV_Jane.pdf", reply.Document.FileName)
	assert.NotEmpty(t, reply.Document.PDF)
	assert.NotEmpty(t, reply.Document.DownloadToken)
}
