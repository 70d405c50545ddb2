//go:build integration

package router

// End-to-end tests against a real PostgreSQL started with testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"interfaz/internal/config"
	"interfaz/internal/infra"
	"interfaz/internal/model"
	"interfaz/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, srv.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Setup ────────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("interfaz_test"),
		tcPostgres.WithUsername("interfaz"),
		tcPostgres.WithPassword("interfaz"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		CORSOrigins:        "*",
		ProductCacheTTL:    time.Minute,
	}

	require.NoError(t, infra.RunMigrations(cfg.DatabaseURL))
	db, err := infra.NewDatabase(cfg.DatabaseURL, false)
	require.NoError(t, err)

	rol, err := repository.NewRolRepository(db).FindOrCreate(ctx, model.RolGerente)
	require.NoError(t, err)
	hash, err := bcrypt.GenerateFromPassword([]byte("gerente1234"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username:     "gerente",
		PasswordHash: string(hash),
		RolID:        &rol.ID,
		Activo:       true,
	}).Error)

	// Redis is optional: the router runs with in-memory fallbacks.
	srv := httptest.NewServer(New(cfg, db, nil))
	t.Cleanup(srv.Close)

	resp := do(t, srv, http.MethodPost, "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "gerente", "password": "gerente1234"}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, resp, &login)
	require.NotEmpty(t, login.AccessToken)

	return &testEnv{server: srv, token: login.AccessToken}
}

type productoCreado struct {
	ID    string `json:"id"`
	Stock string `json:"stock"`
}

func crearProducto(t *testing.T, env *testEnv, body map[string]any) productoCreado {
	t.Helper()
	resp := do(t, env.server, http.MethodPost, "/v1/productos", jsonBody(t, body), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p productoCreado
	decodeJSON(t, resp, &p)
	return p
}

func stockDe(t *testing.T, env *testEnv, id string) string {
	t.Helper()
	resp := do(t, env.server, http.MethodGet, "/v1/productos/"+id, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p productoCreado
	decodeJSON(t, resp, &p)
	return p.Stock
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_RecetaYVenta(t *testing.T) {
	env := setupTestEnv(t)

	harina := crearProducto(t, env, map[string]any{
		"name": "Harina", "price": "900", "stock": "10", "unit": "kg", "is_ingredient": true,
	})
	pan := crearProducto(t, env, map[string]any{
		"name": "Pan", "price": "1500", "stock": "4",
		"recipe_ingredients": []map[string]any{{"ingredient": harina.ID, "quantity": "0.5", "unit": "kg"}},
	})
	assert.Equal(t, "8", stockDe(t, env, harina.ID))

	resp := do(t, env.server, http.MethodPost, "/v1/ventas", jsonBody(t, map[string]any{
		"payment_method": "Efectivo",
		"items":          []map[string]any{{"product_id": pan.ID, "quantity": 3, "price": "1500"}},
	}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, "1", stockDe(t, env, pan.ID))

	resp = do(t, env.server, http.MethodPost, "/v1/ventas", jsonBody(t, map[string]any{
		"payment_method": "Efectivo",
		"items":          []map[string]any{{"product_id": pan.ID, "quantity": 2, "price": "1500"}},
	}), env.token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, "1", stockDe(t, env, pan.ID))

	resp = do(t, env.server, http.MethodGet, "/v1/caja/resumen", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var resumen struct {
		Ingresos string `json:"income"`
	}
	decodeJSON(t, resp, &resumen)
	assert.Equal(t, "4500", resumen.Ingresos)
}

// Concurrent sales of the last units must never oversell.
func TestE2E_VentasConcurrentes(t *testing.T) {
	env := setupTestEnv(t)
	p := crearProducto(t, env, map[string]any{"name": "Alfajor", "price": "700", "stock": "5"})

	var wg sync.WaitGroup
	var mu sync.Mutex
	creadas := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, _ := json.Marshal(map[string]any{
				"payment_method": "Efectivo",
				"items":          []map[string]any{{"product_id": p.ID, "quantity": 1, "price": "700"}},
			})
			req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/v1/ventas", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+env.token)
			resp, err := env.server.Client().Do(req)
			if err != nil {
				return
			}
			resp.Body.Close()
			if resp.StatusCode == http.StatusCreated {
				mu.Lock()
				creadas++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, creadas)
	assert.Equal(t, "0", stockDe(t, env, p.ID))
}
