package httpserver_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/nok/internal/app"
	"github.com/sufield/nok/internal/config"
	"github.com/sufield/nok/internal/domain"
	"github.com/sufield/nok/internal/httpserver"
	"github.com/sufield/nok/internal/ports"
)

type fakeAuth struct {
	err error
}

func (f *fakeAuth) Authorize(ctx context.Context, cred domain.Credential) error {
	if cred.Empty() {
		return fmt.Errorf("%w: empty credential", domain.ErrUnauthorized)
	}
	return f.err
}

type fakeResolver struct{}

func (fakeResolver) Resolve(cred domain.Credential) (domain.Identity, error) {
	return "bar", nil
}

type fakeCatalog struct {
	releases  []domain.Release
	exists    bool
	installed []domain.ResourceName
	removed   []domain.ResourceName
}

func (f *fakeCatalog) List(ctx context.Context, cred domain.Credential, pattern string) ([]domain.Release, error) {
	return f.releases, nil
}

func (f *fakeCatalog) Exists(ctx context.Context, cred domain.Credential, name domain.ResourceName) (bool, error) {
	return f.exists, nil
}

func (f *fakeCatalog) Install(ctx context.Context, cred domain.Credential, name domain.ResourceName, values map[string]interface{}) error {
	f.installed = append(f.installed, name)
	return nil
}

func (f *fakeCatalog) Uninstall(ctx context.Context, cred domain.Credential, name domain.ResourceName) error {
	f.removed = append(f.removed, name)
	return nil
}

type fakeCluster struct {
	scales []int
}

func (f *fakeCluster) Controller(ctx context.Context, cred domain.Credential, name domain.ResourceName) (*domain.ControllerView, error) {
	return &domain.ControllerView{Image: "jupyter/foo:1"}, nil
}

func (f *fakeCluster) Instance(ctx context.Context, cred domain.Credential, name domain.ResourceName) (*domain.InstanceView, error) {
	return nil, nil
}

func (f *fakeCluster) Scale(ctx context.Context, cred domain.Credential, name domain.ResourceName, replicas int) error {
	f.scales = append(f.scales, replicas)
	return nil
}

func (f *fakeCluster) Events(ctx context.Context, cred domain.Credential, object string) (string, error) {
	return "something happened to " + object, nil
}

var (
	_ ports.Authorizer       = (*fakeAuth)(nil)
	_ ports.IdentityResolver = fakeResolver{}
	_ ports.ReleaseCatalog   = (*fakeCatalog)(nil)
	_ ports.ClusterViews     = (*fakeCluster)(nil)
)

type fixture struct {
	handler http.Handler
	catalog *fakeCatalog
	cluster *fakeCluster
}

func newFixture(t *testing.T, mutate func(*config.Config, *fakeCatalog, *fakeAuth)) *fixture {
	t.Helper()

	cfg := config.Default()
	catalog := &fakeCatalog{}
	cluster := &fakeCluster{}
	auth := &fakeAuth{}
	if mutate != nil {
		mutate(&cfg, catalog, auth)
	}

	log := slog.New(slog.DiscardHandler)
	svc := app.NewNotebookService(catalog, cluster, log)
	srv := httpserver.New(cfg, svc, auth, fakeResolver{}, log)
	return &fixture{handler: srv.Handler(), catalog: catalog, cluster: cluster}
}

func (f *fixture) get(path string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authed {
		req.AddCookie(&http.Cookie{Name: "kube_token", Value: "tok"})
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) post(path string, form url.Values, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if authed {
		req.AddCookie(&http.Cookie{Name: "kube_token", Value: "tok"})
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := newFixture(t, nil).get("/healthz", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("sets the session cookie and redirects", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		rec := f.post("/login", url.Values{"kube_token": {"  tok \n"}}, false)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/notebooks", rec.Header().Get("Location"))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "kube_token", cookies[0].Name)
		assert.Equal(t, "tok", cookies[0].Value, "token must be whitespace-trimmed")
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("empty token is forbidden", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, nil).post("/login", url.Values{"kube_token": {"   "}}, false)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("rejected token is unauthorized", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, func(cfg *config.Config, c *fakeCatalog, a *fakeAuth) {
			a.err = fmt.Errorf("%w: cluster said no", domain.ErrUnauthorized)
		})
		rec := f.post("/login", url.Values{"kube_token": {"tok"}}, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	rec := newFixture(t, nil).get("/logout", true)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "kube_token", cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0, "session cookie must be expired")
}

func TestListRequiresSession(t *testing.T) {
	t.Parallel()

	rec := newFixture(t, nil).get("/notebooks", false)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "kube_token")
}

func TestListRendersNotebooks(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(cfg *config.Config, c *fakeCatalog, a *fakeAuth) {
		c.releases = []domain.Release{
			{Name: "nok-bar-foo", Chart: "jupyter-notebook-0.3.1"},
		}
	})

	rec := f.get("/notebooks", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nok-bar-foo")
	assert.Contains(t, rec.Body.String(), "jupyter/foo:1")
	assert.Contains(t, rec.Body.String(), "Not Running")
}

func TestCreate(t *testing.T) {
	t.Parallel()

	t.Run("redirects to the listing", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		rec := f.post("/notebooks", url.Values{"notebook_name": {"foo"}}, true)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/notebooks", rec.Header().Get("Location"))
		assert.Equal(t, []domain.ResourceName{"nok-bar-foo"}, f.catalog.installed)
	})

	t.Run("duplicate is a conflict", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, func(cfg *config.Config, c *fakeCatalog, a *fakeAuth) {
			c.exists = true
		})
		rec := f.post("/notebooks", url.Values{"notebook_name": {"foo"}}, true)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid name is a bad request", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, nil).post("/notebooks", url.Values{"notebook_name": {"Foo Bar"}}, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	t.Run("removes an existing notebook", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, func(cfg *config.Config, c *fakeCatalog, a *fakeAuth) {
			c.exists = true
		})
		rec := f.post("/notebooks/nok-bar-foo/delete", nil, true)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, []domain.ResourceName{"nok-bar-foo"}, f.catalog.removed)
	})

	t.Run("unknown notebook is not found", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, nil).post("/notebooks/nok-bar-foo/delete", nil, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed name is a bad request", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, nil).post("/notebooks/evil_name/delete", nil, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestScale(t *testing.T) {
	t.Parallel()

	t.Run("pauses the notebook", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, func(cfg *config.Config, c *fakeCatalog, a *fakeAuth) {
			c.exists = true
		})
		rec := f.post("/notebooks/nok-bar-foo/scale", url.Values{"replicas": {"0"}}, true)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, []int{0}, f.cluster.scales)
	})

	t.Run("non-numeric replicas", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		rec := f.post("/notebooks/nok-bar-foo/scale", url.Values{"replicas": {"many"}}, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, f.cluster.scales)
	})

	t.Run("out-of-range replicas", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, func(cfg *config.Config, c *fakeCatalog, a *fakeAuth) {
			c.exists = true
		})
		rec := f.post("/notebooks/nok-bar-foo/scale", url.Values{"replicas": {"3"}}, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, f.cluster.scales)
	})
}

func TestEvents(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(cfg *config.Config, c *fakeCatalog, a *fakeAuth) {
		c.exists = true
	})
	rec := f.get("/notebooks/nok-bar-foo/events", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "=== Events for nok-bar-foo ===")
	assert.Contains(t, rec.Body.String(), "=== Events for nok-bar-foo-0 ===")
	assert.Contains(t, rec.Body.String(), "=== Events for data-nok-bar-foo-0 ===")
}

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("redirects to the notebook URL", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, func(cfg *config.Config, c *fakeCatalog, a *fakeAuth) {
			cfg.ClusterName = "k8s.example.com"
			c.exists = true
		})
		rec := f.get("/notebooks/nok-bar-foo/connect", true)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "https://k8s.example.com/notebooks/default/nok-bar-foo/", rec.Header().Get("Location"))
	})

	t.Run("disabled without a cluster name", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, func(cfg *config.Config, c *fakeCatalog, a *fakeAuth) {
			c.exists = true
		})
		rec := f.get("/notebooks/nok-bar-foo/connect", true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()

	rec := newFixture(t, nil).get("/healthz", false)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
