// DocumentService runs the generation pipeline: transform and validate the
// session context, render HTML, rasterize to PDF, upload the bytes to object
// storage, and record the generated document.
package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/AKupriichuk/CV-on-the-Go/internal/common"
	"github.com/AKupriichuk/CV-on-the-Go/internal/resume"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/auth"
	sc "github.com/AKupriichuk/CV-on-the-Go/internal/server/config"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/models"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/render"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// GeneratedDocument is the outcome of one successful generation request.
type GeneratedDocument struct {
	ID            string
	FileName      string
	PDF           []byte
	DownloadToken string
}

type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	renderer    render.Renderer
	config      *sc.Config
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, r render.Renderer, cfg *sc.Config) *DocumentService {
	return &DocumentService{db: db, repomanager: m, renderer: r, config: cfg}
}

// Generate rebuilds the document data from the session context and renders
// it. Validation failures come back wrapped in common.ErrValidation and are
// safe to show to the user; every other failure is internal. The session is
// never mutated.
func (s *DocumentService) Generate(ctx context.Context, user *models.User, session *models.Session) (*GeneratedDocument, error) {
	data, err := resume.Build(session.Context)
	if err != nil {
		return nil, err
	}
	if err := resume.Validate(data); err != nil {
		return nil, err
	}

	html, err := render.HTML(data)
	if err != nil {
		return nil, fmt.Errorf("template error: %w", err)
	}

	pdf, err := s.renderer.RenderHTMLToPDF(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("render error: %w", err)
	}

	fileName := documentFileName(user, data)

	storageKey := ""
	if s.config.S3BaseEndpoint != "" {
		storageKey = randomStorageKey()
		if err := s.upload(ctx, storageKey, pdf); err != nil {
			return nil, fmt.Errorf("upload error: %w", err)
		}
	}

	doc, err := s.repomanager.Documents(s.db).Create(ctx, &models.Document{
		UserID:     user.ID,
		FileName:   fileName,
		StorageKey: storageKey,
	})
	if err != nil {
		return nil, fmt.Errorf("error recording document: %w", err)
	}

	token, err := auth.GenerateDownloadToken(doc.ID, []byte(s.config.SecretKey), s.config.DownloadTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error signing download token: %w", err)
	}

	return &GeneratedDocument{
		ID:            doc.ID,
		FileName:      fileName,
		PDF:           pdf,
		DownloadToken: token,
	}, nil
}

// DownloadURL verifies a download token against the requested document and
// returns a presigned object-storage GET URL for it. Documents generated
// without object storage yield common.ErrorNotFound.
func (s *DocumentService) DownloadURL(ctx context.Context, documentID, token string) (string, error) {
	tokenDocID, err := auth.GetDocumentIDFromToken(token, []byte(s.config.SecretKey))
	if err != nil {
		return "", err
	}
	if tokenDocID != documentID {
		return "", common.ErrInvalidToken
	}

	doc, err := s.repomanager.Documents(s.db).GetByID(ctx, documentID)
	if err != nil {
		return "", err
	}
	if doc.StorageKey == "" || s.config.S3BaseEndpoint == "" {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(doc.StorageKey),
	}, s3.WithPresignExpires(s.config.DownloadTokenValidityDuration))
	if err != nil {
		return "", fmt.Errorf("presign error: %w", err)
	}

	return req.URL, nil
}

func (s *DocumentService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (s *DocumentService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewPresignClient(client), nil
}

func (s *DocumentService) upload(ctx context.Context, key string, pdf []byte) error {
	client, err := s.getS3Client(ctx)
	if err != nil {
		return err
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	return err
}

func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("resumes/%d/%d/%d/%v.pdf", d.Year(), d.Month(), d.Day(), uuid.New())
}

// documentFileName derives the offered filename from the user's first name,
// falling back to the collected full name.
func documentFileName(user *models.User, data *resume.Data) string {
	name := strings.TrimSpace(user.FirstName)
	if name == "" {
		name = strings.TrimSpace(data.Personal.FullName)
	}
	if name == "" {
		name = "resume"
	}
	return "CV_" + strings.ReplaceAll(name, " ", "_") + ".pdf"
}
