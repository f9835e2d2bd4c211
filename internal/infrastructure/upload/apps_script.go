// Package upload envía el TXT de la salida a los Apps Script de Google Drive de cada sucursal.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apppicking "github.com/jhoicas/picking-salida/internal/application/picking"
	"github.com/jhoicas/picking-salida/internal/domain"
)

// Verificar en tiempo de compilación que AppsScriptUploader implementa Uploader.
var _ apppicking.Uploader = (*AppsScriptUploader)(nil)

// AppsScriptUploader publica el archivo como JSON en el endpoint "exec" del origen.
type AppsScriptUploader struct {
	targets    map[string]string
	httpClient *http.Client
}

// NewAppsScriptUploader construye el adaptador. targets: ORIGEN → URL. timeout <= 0 usa 30 s.
func NewAppsScriptUploader(targets map[string]string, timeout time.Duration) *AppsScriptUploader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	t := make(map[string]string, len(targets))
	for origin, u := range targets {
		t[strings.ToUpper(strings.TrimSpace(origin))] = u
	}
	return &AppsScriptUploader{
		targets:    t,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Target URL configurada para el origen.
func (u *AppsScriptUploader) Target(origin string) (string, bool) {
	t, ok := u.targets[strings.ToUpper(strings.TrimSpace(origin))]
	return t, ok && t != ""
}

// Upload envía el archivo. Apps Script responde 200 (a veces tras un redirect); cualquier
// otro estado se informa como domain.ErrUploadFailed.
func (u *AppsScriptUploader) Upload(ctx context.Context, target string, file apppicking.ExportFile) error {
	if file.MimeType == "" {
		file.MimeType = "text/plain"
	}
	body, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("upload: serializar payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("upload: crear HTTP request: %w", err)
	}
	// El Apps Script espera text/plain aunque el cuerpo sea JSON.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: timeout o cancelación: %v", domain.ErrUploadFailed, ctx.Err())
		}
		return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrUploadFailed, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}
