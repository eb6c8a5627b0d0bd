package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"print-order-bot/internal/pkg/config"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	authURI        = "https://accounts.google.com/o/oauth2/auth"
	tokenURI       = "https://oauth2.googleapis.com/token"
	providerCert   = "https://www.googleapis.com/oauth2/v1/certs"
	universeDomain = "googleapis.com"
)

type serviceAccount struct {
	Type           string `json:"type"`
	ProjectID      string `json:"project_id"`
	PrivateKeyID   string `json:"private_key_id"`
	PrivateKey     string `json:"private_key"`
	ClientEmail    string `json:"client_email"`
	ClientID       string `json:"client_id"`
	AuthURI        string `json:"auth_uri"`
	TokenURI       string `json:"token_uri"`
	ProviderCert   string `json:"auth_provider_x509_cert_url"`
	ClientCertURL  string `json:"client_x509_cert_url"`
	UniverseDomain string `json:"universe_domain"`
}

// CredentialsJSON assembles a service-account key document from the
// environment-supplied fields.
func CredentialsJSON(cfg *config.GoogleCfg) ([]byte, error) {
	return json.Marshal(serviceAccount{
		Type:           "service_account",
		ProjectID:      cfg.ProjectID,
		PrivateKeyID:   cfg.PrivateKeyID,
		PrivateKey:     cfg.PrivateKey,
		ClientEmail:    cfg.ClientEmail,
		ClientID:       cfg.ClientID,
		AuthURI:        authURI,
		TokenURI:       tokenURI,
		ProviderCert:   providerCert,
		ClientCertURL:  cfg.ClientCertURL,
		UniverseDomain: universeDomain,
	})
}

type Uploader struct {
	files    *drive.FilesService
	folderID string
}

func NewUploader(ctx context.Context, cfg *config.GoogleCfg, opts ...option.ClientOption) (*Uploader, error) {
	raw, err := CredentialsJSON(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode service account: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account: %w", err)
	}

	opts = append([]option.ClientOption{option.WithCredentials(creds)}, opts...)
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}

	return NewUploaderWithService(svc, cfg.FolderID), nil
}

func NewUploaderWithService(svc *drive.Service, folderID string) *Uploader {
	return &Uploader{files: svc.Files, folderID: folderID}
}

// Upload stores body as name inside the configured folder and returns the id
// Drive assigned to it.
func (u *Uploader) Upload(ctx context.Context, name string, body io.Reader) (string, error) {
	meta := &drive.File{
		Name:    name,
		Parents: []string{u.folderID},
	}

	created, err := u.files.Create(meta).
		Media(body, googleapi.ContentType("application/octet-stream")).
		SupportsAllDrives(true).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", &ErrUpload{Name: name, Err: err}
	}

	slog.Info("Uploaded file to Drive", "name", name, "fileID", created.Id)
	return created.Id, nil
}

type ErrUpload struct {
	Name string
	Err  error
}

func (e *ErrUpload) Error() string {
	return fmt.Sprintf("failed to upload %s: %s", e.Name, e.Err)
}

func (e *ErrUpload) Unwrap() error {
	return e.Err
}
