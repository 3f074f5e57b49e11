package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/entity"
)

type restGateway struct {
	baseURL string
	key     string
	http    *http.Client
	logger  *slog.Logger
}

// NewRESTGateway upserts through a PostgREST endpoint such as Supabase's
// /rest/v1. key is sent both as apikey and as bearer token.
func NewRESTGateway(baseURL, key string, timeout time.Duration, logger *slog.Logger) Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &restGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (g *restGateway) Upsert(ctx context.Context, table constants.Table, rec entity.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", table, err)
	}

	urlStr := g.baseURL + "/rest/v1/" + url.PathEscape(table.String()) + "?on_conflict=" + url.QueryEscape(table.KeyColumn())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, urlStr, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	g.authorize(req)
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("supabase status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	g.logger.Debug("record upserted", "table", table.String(), "key", rec[table.KeyColumn()])
	return nil
}

func (g *restGateway) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/rest/v1/", nil)
	if err != nil {
		return err
	}
	g.authorize(req)
	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("supabase status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

func (g *restGateway) authorize(req *http.Request) {
	req.Header.Set("apikey", g.key)
	req.Header.Set("Authorization", "Bearer "+g.key)
}

func (g *restGateway) Close() error {
	g.http.CloseIdleConnections()
	return nil
}
